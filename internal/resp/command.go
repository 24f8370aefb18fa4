package resp

import "strings"

// Command identifies a bulk string payload that names a known command.
type Command uint8

// Recognized command identifiers.
const (
	CommandNone Command = iota
	CommandPing
	CommandEcho
	CommandGet
	CommandSet
	CommandPX
)

var commandNames = map[string]Command{
	"PING": CommandPing,
	"ECHO": CommandEcho,
	"GET":  CommandGet,
	"SET":  CommandSet,
	"PX":   CommandPX,
}

// String returns the canonical upper-case name.
func (c Command) String() string {
	switch c {
	case CommandPing:
		return "PING"
	case CommandEcho:
		return "ECHO"
	case CommandGet:
		return "GET"
	case CommandSet:
		return "SET"
	case CommandPX:
		return "PX"
	default:
		return "NONE"
	}
}

// LookupCommand matches name case-insensitively against the known commands.
func LookupCommand(name string) (Command, bool) {
	c, ok := commandNames[normalizeCommandName(name)]
	return c, ok
}

// Commands returns the known command names in declaration order.
func Commands() []string {
	return []string{"PING", "ECHO", "GET", "SET", "PX"}
}

func normalizeCommandName(s string) string {
	if s == "" {
		return ""
	}
	// Uppercase ASCII without allocating for already uppercased names.
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		return strings.ToUpper(s)
	}
	return s
}
