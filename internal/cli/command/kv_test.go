package command

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestKV_Commands(t *testing.T) {
	addr := startServer(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"ping", []string{"ping"}, "PONG\n"},
		{"echo", []string{"echo", "hello world"}, "\"hello world\"\n"},
		{"get missing", []string{"get", "foo"}, "(nil)\n"},
		{"set", []string{"set", "foo", "bar"}, "OK\n"},
		{"get", []string{"get", "foo"}, "\"bar\"\n"},
		{"raw unknown", []string{"raw", "FLUSHALL"}, "OK\n"},
		{"raw get", []string{"raw", "GET", "foo"}, "\"bar\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, addr, "", tt.args...)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if out != tt.want {
				t.Errorf("out = %q, want %q", out, tt.want)
			}
		})
	}
}

func TestKV_SetPX(t *testing.T) {
	addr := startServer(t)

	if _, err := runCLI(t, addr, "", "set", "--px", "50", "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	out, _ := runCLI(t, addr, "", "get", "k")
	if out != "\"v\"\n" {
		t.Fatalf("get before expiry = %q", out)
	}

	time.Sleep(120 * time.Millisecond)
	out, _ = runCLI(t, addr, "", "get", "k")
	if out != "(nil)\n" {
		t.Errorf("get after expiry = %q", out)
	}

	if _, err := runCLI(t, addr, "", "set", "--px", "-5", "k", "v"); err == nil {
		t.Error("negative --px should be rejected")
	}
}

func TestKV_ErrorReply(t *testing.T) {
	addr := startServer(t)

	out, err := runCLI(t, addr, "", "raw", "GET")
	if !errors.Is(err, ErrReplyError) {
		t.Errorf("err = %v, want ErrReplyError", err)
	}
	if !strings.HasPrefix(out, "(error) ERR wrong number of arguments for 'get' command") {
		t.Errorf("out = %q", out)
	}
}

func TestKV_ArgCount(t *testing.T) {
	tests := [][]string{
		{"echo"},
		{"echo", "a", "b"},
		{"get"},
		{"set", "k"},
		{"raw"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, "_"), func(t *testing.T) {
			if _, err := runCLI(t, "127.0.0.1:1", "", args...); err == nil {
				t.Errorf("%v should fail", args)
			}
		})
	}
}

func TestKV_YAMLOutput(t *testing.T) {
	addr := startServer(t)

	out, err := runCLI(t, addr, "", "-o", "yaml", "get", "nothing")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out) != "type: nil" {
		t.Errorf("out = %q", out)
	}
}
