package repl

import (
	"errors"
	"strings"
)

// ErrUnbalancedQuotes is returned for a line with an unterminated quote.
var ErrUnbalancedQuotes = errors.New("unbalanced quotes")

// SplitArgs splits line on whitespace. Double quotes allow \" \\ \n \r
// and \t escapes; single quotes are literal.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   byte
		escaped bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case escaped:
			switch c {
			case 'n':
				cur.WriteByte('\n')
			case 'r':
				cur.WriteByte('\r')
			case 't':
				cur.WriteByte('\t')
			default:
				cur.WriteByte(c)
			}
			escaped = false
		case quote == '"' && c == '\\':
			escaped = true
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			inArg = true
		case c == ' ' || c == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteByte(c)
			inArg = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnbalancedQuotes
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
