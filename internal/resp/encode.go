package resp

import (
	"bufio"
	"errors"
	"strconv"
)

const crlf = "\r\n"

// ErrUnencodable is returned for tokens with no wire form (recognized commands).
var ErrUnencodable = errors.New("resp: token has no wire encoding")

// Encode renders t in its exact wire form.
func Encode(t Token) ([]byte, error) {
	return AppendEncode(nil, t)
}

// AppendEncode appends the wire form of t to dst. Bulk string lengths are
// recomputed from the payload; the declared length is not used.
func AppendEncode(dst []byte, t Token) ([]byte, error) {
	switch t.Kind {
	case KindArray:
		dst = append(dst, '*')
		dst = strconv.AppendInt(dst, int64(len(t.Elems)), 10)
		dst = append(dst, crlf...)
		for _, e := range t.Elems {
			var err error
			if dst, err = AppendEncode(dst, e); err != nil {
				return dst, err
			}
		}
		return dst, nil
	case KindBulkString:
		dst = append(dst, '$')
		dst = strconv.AppendInt(dst, int64(len(t.Str)), 10)
		dst = append(dst, crlf...)
		dst = append(dst, t.Str...)
		return append(dst, crlf...), nil
	case KindInteger:
		dst = append(dst, ':')
		dst = strconv.AppendInt(dst, t.Int, 10)
		return append(dst, crlf...), nil
	case KindSimpleString:
		dst = append(dst, '+')
		dst = append(dst, t.Str...)
		return append(dst, crlf...), nil
	case KindError:
		dst = append(dst, '-')
		dst = append(dst, t.Str...)
		return append(dst, crlf...), nil
	case KindNull:
		return append(dst, "$-1\r\n"...), nil
	default:
		return dst, ErrUnencodable
	}
}

// WriteToken encodes t into w. Nothing is written if t cannot be encoded.
func WriteToken(w *bufio.Writer, t Token) error {
	b, err := Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// CommandLine builds the request array for a command line, one bulk string per argument.
func CommandLine(args ...string) Token {
	elems := make([]Token, len(args))
	for i, a := range args {
		elems[i] = Bulk(a)
	}
	return Array(elems...)
}
