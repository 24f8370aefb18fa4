package resp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Protocol limits to bound work on adversarial input.
const (
	// DefaultMaxDepth limits array nesting.
	DefaultMaxDepth = 32

	// DefaultMaxArrayLen limits the number of elements in a single array.
	DefaultMaxArrayLen = 1024

	// DefaultMaxPending limits bytes buffered while waiting for a frame to complete.
	DefaultMaxPending = 1 << 20
)

var (
	ErrProtocol      = errors.New("resp: protocol error")
	ErrIncomplete    = errors.New("resp: incomplete frame")
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// DecodeError describes a decode fault at a given line (1-based).
type DecodeError struct {
	Line   int
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v: %s (line %d)", e.Err, e.Reason, e.Line)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Limits bounds decoder work.
type Limits struct {
	MaxDepth    int
	MaxArrayLen int
	MaxPending  int
}

// DefaultLimits returns the default protocol limits.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:    DefaultMaxDepth,
		MaxArrayLen: DefaultMaxArrayLen,
		MaxPending:  DefaultMaxPending,
	}
}

// Option configures a Decoder or Stream.
type Option func(*Limits)

// WithLimits replaces the limits; zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(dst *Limits) {
		if l.MaxDepth > 0 {
			dst.MaxDepth = l.MaxDepth
		}
		if l.MaxArrayLen > 0 {
			dst.MaxArrayLen = l.MaxArrayLen
		}
		if l.MaxPending > 0 {
			dst.MaxPending = l.MaxPending
		}
	}
}

func buildLimits(opts []Option) Limits {
	l := DefaultLimits()
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Decoder yields top-level tokens from an immutable sequence of lines.
type Decoder struct {
	lines  []string
	pos    int
	limits Limits
}

// NewDecoder trims surrounding whitespace from text and splits it on CRLF.
// An empty buffer yields no lines.
func NewDecoder(text string, opts ...Option) *Decoder {
	text = strings.TrimSpace(text)
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\r\n")
	}
	return newLineDecoder(lines, buildLimits(opts))
}

func newLineDecoder(lines []string, limits Limits) *Decoder {
	return &Decoder{lines: lines, limits: limits}
}

// More reports whether unconsumed lines remain.
func (d *Decoder) More() bool {
	return d.pos < len(d.lines)
}

// Pos returns the number of lines consumed so far.
func (d *Decoder) Pos() int {
	return d.pos
}

// Next decodes one top-level token. After an error the position is
// unspecified and the decoder should be discarded.
func (d *Decoder) Next() (Token, error) {
	return d.next(0)
}

// Decode decodes every top-level token in text. On error the tokens decoded
// before the fault are returned alongside it.
func Decode(text string, opts ...Option) ([]Token, error) {
	d := NewDecoder(text, opts...)
	var out []Token
	for d.More() {
		t, err := d.Next()
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (d *Decoder) fault(err error, reason string) error {
	return &DecodeError{Line: d.pos, Reason: reason, Err: err}
}

func (d *Decoder) next(depth int) (Token, error) {
	if d.pos >= len(d.lines) {
		return Token{}, &DecodeError{Line: d.pos + 1, Reason: "unexpected end of input", Err: ErrIncomplete}
	}
	line := d.lines[d.pos]
	d.pos++
	if line == "" {
		return Token{}, d.fault(ErrProtocol, "empty line")
	}

	rest := line[1:]
	switch line[0] {
	case '$':
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || n < -1 {
			return Token{}, d.fault(ErrProtocol, "invalid bulk length")
		}
		if n == -1 {
			return Null(), nil
		}
		if d.pos >= len(d.lines) {
			return Token{}, &DecodeError{Line: d.pos + 1, Reason: "missing bulk payload", Err: ErrIncomplete}
		}
		payload := d.lines[d.pos]
		d.pos++
		if c, ok := LookupCommand(payload); ok {
			return Recognized(c, payload), nil
		}
		return BulkWithLen(n, payload), nil
	case '-':
		return Error(rest), nil
	case ':':
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Token{}, d.fault(ErrProtocol, "invalid integer")
		}
		return Integer(n), nil
	case '+':
		return Simple(rest), nil
	case '*':
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || n < -1 {
			return Token{}, d.fault(ErrProtocol, "invalid multibulk length")
		}
		if n == -1 {
			return Null(), nil
		}
		if n > int64(d.limits.MaxArrayLen) {
			return Token{}, d.fault(ErrLimitExceeded,
				fmt.Sprintf("array length %d exceeds limit %d", n, d.limits.MaxArrayLen))
		}
		if depth+1 > d.limits.MaxDepth {
			return Token{}, d.fault(ErrLimitExceeded,
				fmt.Sprintf("nesting exceeds limit %d", d.limits.MaxDepth))
		}
		elems := make([]Token, 0, n)
		for i := int64(0); i < n; i++ {
			e, err := d.next(depth + 1)
			if err != nil {
				return Token{}, err
			}
			elems = append(elems, e)
		}
		return Token{Kind: KindArray, Len: n, Elems: elems}, nil
	default:
		return Token{}, d.fault(ErrProtocol, fmt.Sprintf("unexpected '%c'", line[0]))
	}
}
