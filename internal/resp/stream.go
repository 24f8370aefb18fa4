package resp

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Stream reassembles frames that arrive split across several reads.
//
// Only the CRLF-terminated prefix of the pending bytes is decoded. A frame
// that runs out of lines stays pending until a later Feed completes it.
// For a buffer holding whole frames the result matches Decode.
type Stream struct {
	buf    []byte
	limits Limits
}

// NewStream creates an empty Stream.
func NewStream(opts ...Option) *Stream {
	return &Stream{limits: buildLimits(opts)}
}

// Feed appends chunk and returns every top-level token completed by it.
// Tokens decoded before a fault are returned with the error; the Stream
// must not be fed again after a non-limit fault.
func (s *Stream) Feed(chunk []byte) ([]Token, error) {
	s.buf = append(s.buf, chunk...)
	s.buf = trimLeftSpace(s.buf)

	end := bytes.LastIndex(s.buf, []byte(crlf))
	if end < 0 {
		return nil, s.checkPending()
	}

	lines := strings.Split(string(s.buf[:end]), crlf)
	d := newLineDecoder(lines, s.limits)

	var out []Token
	consumed := 0
	for d.More() {
		t, err := d.Next()
		if errors.Is(err, ErrIncomplete) {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, t)
		consumed = d.Pos()
	}

	n := 0
	for _, l := range lines[:consumed] {
		n += len(l) + len(crlf)
	}
	s.buf = append(s.buf[:0], s.buf[n:]...)
	s.buf = trimLeftSpace(s.buf)

	return out, s.checkPending()
}

// Pending returns the number of buffered bytes not yet decoded.
func (s *Stream) Pending() int {
	return len(s.buf)
}

// Reset drops any buffered bytes.
func (s *Stream) Reset() {
	s.buf = s.buf[:0]
}

func (s *Stream) checkPending() error {
	if len(s.buf) > s.limits.MaxPending {
		return fmt.Errorf("%w: pending frame exceeds %d bytes", ErrLimitExceeded, s.limits.MaxPending)
	}
	return nil
}

func trimLeftSpace(b []byte) []byte {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	if i == 0 {
		return b
	}
	return append(b[:0], b[i:]...)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
