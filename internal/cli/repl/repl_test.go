package repl

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/respkv/internal/resp"
)

type recorder struct {
	calls [][]string
	reply resp.Token
	err   error
}

func (rec *recorder) exec(_ context.Context, args []string) (resp.Token, error) {
	rec.calls = append(rec.calls, args)
	return rec.reply, rec.err
}

func run(t *testing.T, rec *recorder, input string) string {
	t.Helper()
	var out bytes.Buffer
	h := NewHistory(filepath.Join(t.TempDir(), "history"))
	r := New(rec.exec, WithIO(strings.NewReader(input), &out), WithHistory(h))
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestREPL_SendsCommands(t *testing.T) {
	rec := &recorder{reply: resp.Bulk("bar")}
	out := run(t, rec, "get foo\nset k \"two words\"\n")

	if len(rec.calls) != 2 {
		t.Fatalf("calls = %v", rec.calls)
	}
	if strings.Join(rec.calls[1], "|") != "set|k|two words" {
		t.Errorf("call 2 = %q", rec.calls[1])
	}
	if !strings.Contains(out, `"bar"`) {
		t.Errorf("output = %q", out)
	}
	if !strings.HasPrefix(out, "respkv> ") {
		t.Errorf("missing prompt: %q", out)
	}
}

func TestREPL_Exit(t *testing.T) {
	rec := &recorder{reply: resp.OK}
	run(t, rec, "ping\nexit\nping\n")
	if len(rec.calls) != 1 {
		t.Errorf("calls after exit: %v", rec.calls)
	}
}

func TestREPL_LastLineWithoutNewline(t *testing.T) {
	rec := &recorder{reply: resp.OK}
	run(t, rec, "ping")
	if len(rec.calls) != 1 {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestREPL_ExecError(t *testing.T) {
	rec := &recorder{err: errors.New("connection refused")}
	out := run(t, rec, "ping\n")
	if !strings.Contains(out, "(error) connection refused") {
		t.Errorf("output = %q", out)
	}
}

func TestREPL_Builtins(t *testing.T) {
	rec := &recorder{reply: resp.OK}
	out := run(t, rec, "help s\nset a 1\nhistory\n!!\n!1\n!9\n")

	if !strings.Contains(out, "SET") {
		t.Errorf("help output missing SET: %q", out)
	}
	if !strings.Contains(out, "   1  help s") {
		t.Errorf("history output: %q", out)
	}
	// !! re-runs "history" and !1 re-runs "help s"; neither reaches the server.
	if len(rec.calls) != 1 {
		t.Errorf("calls = %v, want only the set", rec.calls)
	}
	if !strings.Contains(out, "(error) no history entry !9") {
		t.Errorf("missing recall error: %q", out)
	}
}

func TestREPL_UnbalancedQuotes(t *testing.T) {
	rec := &recorder{reply: resp.OK}
	out := run(t, rec, "echo \"oops\n")
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v", rec.calls)
	}
	if !strings.Contains(out, ErrUnbalancedQuotes.Error()) {
		t.Errorf("output = %q", out)
	}
}

func TestREPL_ContextCancelled(t *testing.T) {
	rec := &recorder{reply: resp.OK}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(rec.exec, WithIO(strings.NewReader("ping\n"), &bytes.Buffer{}),
		WithHistory(NewHistory(filepath.Join(t.TempDir(), "h"))))
	if err := r.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("calls = %v", rec.calls)
	}
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{"get foo", []string{"get", "foo"}, false},
		{"  set   a  b ", []string{"set", "a", "b"}, false},
		{`echo "hello world"`, []string{"echo", "hello world"}, false},
		{`echo 'a "b"'`, []string{"echo", `a "b"`}, false},
		{`echo "a\"b\\c"`, []string{"echo", `a"b\c`}, false},
		{`echo "x\ty"`, []string{"echo", "x\ty"}, false},
		{`echo ""`, []string{"echo", ""}, false},
		{`echo "open`, nil, true},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") || len(got) != len(tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
