// Package repl provides the interactive mode of respkv-cli.
//
// Each input line is split into arguments (single and double quotes are
// honoured) and sent as one command. Built-ins:
//
//	help [PREFIX]   list commands, optionally those starting with PREFIX
//	history         show the session history
//	!!  !N          re-run the last or the N-th history entry
//	exit, quit      leave
package repl
