package resp

import (
	"encoding/binary"
	"hash"
	"strconv"
	"strings"

	"github.com/spaolacci/murmur3"
)

// Kind is the variant tag of a Token.
type Kind uint8

// Token variants. The set is closed; consumers switch on Kind.
const (
	KindNull Kind = iota
	KindArray
	KindBulkString
	KindInteger
	KindSimpleString
	KindError
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindArray:
		return "array"
	case KindBulkString:
		return "bulk"
	case KindInteger:
		return "integer"
	case KindSimpleString:
		return "simple"
	case KindError:
		return "error"
	case KindCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Token is an immutable RESP value.
//
// Field use depends on Kind:
//   - KindArray: Len is the declared count, Elems the elements
//   - KindBulkString: Len is the declared length, Str the payload
//   - KindInteger: Int
//   - KindSimpleString, KindError: Str
//   - KindCommand: Cmd, with the original payload kept in Str
//
// The zero Token is Null.
type Token struct {
	Kind  Kind
	Len   int64
	Int   int64
	Str   string
	Cmd   Command
	Elems []Token
}

// Null returns the null bulk string.
func Null() Token {
	return Token{Kind: KindNull}
}

// Array returns an array whose count matches its elements.
func Array(elems ...Token) Token {
	return Token{Kind: KindArray, Len: int64(len(elems)), Elems: elems}
}

// Bulk returns a bulk string whose declared length is the payload length.
func Bulk(s string) Token {
	return Token{Kind: KindBulkString, Len: int64(len(s)), Str: s}
}

// BulkWithLen returns a bulk string carrying a declared length as read off
// the wire, which may disagree with len(s).
func BulkWithLen(n int64, s string) Token {
	return Token{Kind: KindBulkString, Len: n, Str: s}
}

// Integer returns an integer token.
func Integer(n int64) Token {
	return Token{Kind: KindInteger, Int: n}
}

// Simple returns a simple string token. s must not contain CR or LF.
func Simple(s string) Token {
	return Token{Kind: KindSimpleString, Str: s}
}

// Error returns an error token carrying msg as its payload.
func Error(msg string) Token {
	return Token{Kind: KindError, Str: msg}
}

// Recognized returns a command token. raw is the payload it was decoded from.
func Recognized(c Command, raw string) Token {
	return Token{Kind: KindCommand, Cmd: c, Str: raw}
}

// Common replies.
var (
	OK   = Simple("OK")
	Pong = Simple("PONG")
)

// IsNull reports whether t is the null value.
func (t Token) IsNull() bool { return t.Kind == KindNull }

// IsCommand reports whether t is the recognized command c.
func (t Token) IsCommand(c Command) bool {
	return t.Kind == KindCommand && t.Cmd == c
}

// Literal returns t with every recognized command, including those nested
// in arrays, turned back into the bulk string it was decoded from. The
// result is always encodable.
func (t Token) Literal() Token {
	switch t.Kind {
	case KindCommand:
		return Bulk(t.Str)
	case KindArray:
		if !t.containsCommand() {
			return t
		}
		elems := make([]Token, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = e.Literal()
		}
		t.Elems = elems
	}
	return t
}

func (t Token) containsCommand() bool {
	for _, e := range t.Elems {
		if e.Kind == KindCommand || (e.Kind == KindArray && e.containsCommand()) {
			return true
		}
	}
	return false
}

// Equal reports structural equality. Recognized commands compare by
// identifier only.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindNull:
		return true
	case KindArray:
		if t.Len != o.Len || len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindBulkString:
		return t.Len == o.Len && t.Str == o.Str
	case KindInteger:
		return t.Int == o.Int
	case KindSimpleString, KindError:
		return t.Str == o.Str
	case KindCommand:
		return t.Cmd == o.Cmd
	default:
		return false
	}
}

// Hash returns a structural 64-bit hash consistent with Equal.
func (t Token) Hash() uint64 {
	h := murmur3.New64()
	t.hashInto(h)
	return h.Sum64()
}

func (t Token) hashInto(h hash.Hash64) {
	var buf [9]byte
	buf[0] = byte(t.Kind)
	switch t.Kind {
	case KindArray:
		binary.LittleEndian.PutUint64(buf[1:], uint64(t.Len))
		h.Write(buf[:])
		for _, e := range t.Elems {
			e.hashInto(h)
		}
	case KindBulkString:
		binary.LittleEndian.PutUint64(buf[1:], uint64(t.Len))
		h.Write(buf[:])
		h.Write([]byte(t.Str))
	case KindInteger:
		binary.LittleEndian.PutUint64(buf[1:], uint64(t.Int))
		h.Write(buf[:])
	case KindSimpleString, KindError:
		h.Write(buf[:1])
		h.Write([]byte(t.Str))
	case KindCommand:
		buf[1] = byte(t.Cmd)
		h.Write(buf[:2])
	default:
		h.Write(buf[:1])
	}
}

// String renders t for logs and debugging. Bulk and simple strings render
// as their payload; arrays render their elements in brackets.
func (t Token) String() string {
	var sb strings.Builder
	t.writeString(&sb)
	return sb.String()
}

func (t Token) writeString(sb *strings.Builder) {
	switch t.Kind {
	case KindNull:
		sb.WriteString("$-1")
	case KindArray:
		sb.WriteByte('[')
		for i, e := range t.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.writeString(sb)
		}
		sb.WriteByte(']')
	case KindBulkString, KindSimpleString:
		sb.WriteString(t.Str)
	case KindInteger:
		sb.WriteString(strconv.FormatInt(t.Int, 10))
	case KindError:
		sb.WriteString(strconv.Quote(t.Str))
	case KindCommand:
		sb.WriteString("Command(" + t.Cmd.String() + ")")
	}
}
