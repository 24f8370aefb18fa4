// Package command provides the respkv-cli command definitions.
//
// It uses urfave/cli/v2 for command parsing:
//
//   - root.go: application, global flags, settings resolution
//   - kv.go: ping, echo, get, set and raw
//   - bench.go: load generator over a connection pool
//   - repl.go: interactive mode
package command
