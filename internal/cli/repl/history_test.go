package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHistory_AddGet(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history"))
	h.Add("first")
	h.Add("second")
	h.Add("second")
	h.Add("third")

	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3 (repeat skipped)", h.Len())
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "third"},
		{1, "second"},
		{2, "first"},
		{3, ""},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}

	if s, ok := h.At(1); !ok || s != "first" {
		t.Errorf("At(1) = %q, %v", s, ok)
	}
	if _, ok := h.At(4); ok {
		t.Error("At(4) should be out of range")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history"))
	h.maxSize = 3
	for _, c := range []string{"cmd1", "cmd2", "cmd3", "cmd4"} {
		h.Add(c)
	}
	got := h.Entries()
	if len(got) != 3 || got[0] != "cmd2" {
		t.Errorf("entries = %v", got)
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "history")

	h := NewHistory(file)
	h.Add("get a")
	h.Add("set a 1")
	if err := h.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v", info.Mode().Perm())
	}

	h2 := NewHistory(file)
	if err := h2.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := h2.Entries(); len(got) != 2 || got[0] != "get a" || got[1] != "set a 1" {
		t.Errorf("loaded %v", got)
	}
}

func TestHistory_LoadMissing(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "none"))
	if err := h.Load(); err != nil {
		t.Errorf("Load: %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len = %d", h.Len())
	}
}

func TestHistory_DefaultPath(t *testing.T) {
	h := NewHistory("")
	if filepath.Base(h.file) != "history" || filepath.Base(filepath.Dir(h.file)) != ".respkv" {
		t.Errorf("file = %q", h.file)
	}
}

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter()

	tests := []struct {
		prefix string
		want   []string
	}{
		{"s", []string{"SET"}},
		{"E", []string{"ECHO", "EXIT"}},
		{"p", []string{"PING", "PX"}},
		{"h", []string{"HELP", "HISTORY"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got := c.Complete(tt.prefix)
			if len(got) != len(tt.want) {
				t.Fatalf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Complete(%q)[%d] = %q, want %q", tt.prefix, i, got[i], tt.want[i])
				}
			}
		})
	}

	if all := c.Complete(""); len(all) != len(c.commands) {
		t.Errorf("empty prefix gave %d, want %d", len(all), len(c.commands))
	}
}
