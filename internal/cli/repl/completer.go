package repl

import (
	"sort"
	"strings"

	"github.com/yndnr/respkv/internal/resp"
)

// Completer provides command-name completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the server commands and the
// REPL built-ins.
func NewCompleter() *Completer {
	cmds := append([]string{}, resp.Commands()...)
	cmds = append(cmds, "EXIT", "HELP", "HISTORY", "QUIT")
	sort.Strings(cmds)
	return &Completer{commands: cmds}
}

// Complete returns the commands starting with prefix, matched
// case-insensitively.
func (c *Completer) Complete(prefix string) []string {
	prefix = strings.ToUpper(prefix)
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
