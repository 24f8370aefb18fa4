package resp

import (
	"errors"
	"strings"
	"testing"
)

func TestStream_WholeFrame(t *testing.T) {
	s := NewStream()
	got, err := s.Feed([]byte("*1\r\n$4\r\nPING\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(Array(Recognized(CommandPing, "PING"))) {
		t.Errorf("got %v", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
}

func TestStream_SplitAcrossReads(t *testing.T) {
	frame := "*3\r\n$3\r\nSET\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"
	want := Array(Recognized(CommandSet, "SET"), Bulk("foo"), Bulk("bar"))

	// Every split point must yield exactly one token once the frame completes.
	for i := 1; i < len(frame); i++ {
		s := NewStream()
		first, err := s.Feed([]byte(frame[:i]))
		if err != nil {
			t.Fatalf("split %d: first feed error: %v", i, err)
		}
		if len(first) != 0 {
			t.Fatalf("split %d: got %v before frame completed", i, first)
		}
		second, err := s.Feed([]byte(frame[i:]))
		if err != nil {
			t.Fatalf("split %d: second feed error: %v", i, err)
		}
		if len(second) != 1 || !second[0].Equal(want) {
			t.Fatalf("split %d: got %v, want %v", i, second, want)
		}
	}
}

func TestStream_Pipeline(t *testing.T) {
	s := NewStream()
	input := "*1\r\n$4\r\nPING\r\n*2\r\n$3\r\nGET\r\n$3\r\nkey\r\n*2\r\n$4\r\nECHO"
	got, err := s.Feed([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if s.Pending() == 0 {
		t.Fatal("partial third frame should stay pending")
	}

	got, err = s.Feed([]byte("\r\n$2\r\nhi\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Array(Recognized(CommandEcho, "ECHO"), Bulk("hi"))
	if len(got) != 1 || !got[0].Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStream_EmptyBulkAtEnd(t *testing.T) {
	// Decode trims the whole buffer and so loses a trailing empty payload;
	// the stream keeps line boundaries intact.
	s := NewStream()
	got, err := s.Feed([]byte("$0\r\n\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || !got[0].Equal(Bulk("")) {
		t.Errorf("got %v, want empty bulk", got)
	}

	if _, err := Decode("$0\r\n\r\n"); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Decode error = %v, want ErrIncomplete", err)
	}
}

func TestStream_ProtocolError(t *testing.T) {
	s := NewStream()
	got, err := s.Feed([]byte("+OK\r\n!nope\r\n"))
	if !errors.Is(err, ErrProtocol) {
		t.Fatalf("error = %v, want ErrProtocol", err)
	}
	if len(got) != 1 {
		t.Errorf("tokens before fault = %v", got)
	}
}

func TestStream_PendingLimit(t *testing.T) {
	s := NewStream(WithLimits(Limits{MaxPending: 16}))
	_, err := s.Feed([]byte("$100\r\n" + strings.Repeat("x", 32)))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("error = %v, want ErrLimitExceeded", err)
	}
}

func TestStream_Reset(t *testing.T) {
	s := NewStream()
	_, _ = s.Feed([]byte("*2\r\n"))
	if s.Pending() == 0 {
		t.Fatal("expected pending bytes")
	}
	s.Reset()
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Reset", s.Pending())
	}
}
