package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	tests := []struct {
		name  string
		value string
	}{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"BuildTime", info.BuildTime},
		{"GoVersion", info.GoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s should not be empty", tt.name)
			}
		})
	}

	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
}

func TestGet_InjectedCommitWins(t *testing.T) {
	prev := Commit
	Commit = "abc123"
	defer func() { Commit = prev }()

	if got := Get().Commit; got != "abc123" {
		t.Errorf("Commit = %q, want abc123", got)
	}
}

func TestString(t *testing.T) {
	s := String()
	i := Get()
	if !strings.HasPrefix(s, i.Version+" ("+i.Commit+") built at ") {
		t.Errorf("String() = %q", s)
	}
	if !strings.HasSuffix(s, i.GoVersion) {
		t.Errorf("String() = %q, want Go version suffix", s)
	}
}

func TestShortRev(t *testing.T) {
	if got := shortRev("0123456789abcdef"); got != "0123456789ab" {
		t.Errorf("shortRev() = %q", got)
	}
	if got := shortRev("abc"); got != "abc" {
		t.Errorf("shortRev() = %q", got)
	}
}
