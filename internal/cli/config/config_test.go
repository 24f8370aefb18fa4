package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DefaultServer != "127.0.0.1:6379" {
		t.Errorf("DefaultServer = %q", cfg.DefaultServer)
	}
	if cfg.DefaultOutput != "raw" {
		t.Errorf("DefaultOutput = %q", cfg.DefaultOutput)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	if !filepath.IsAbs(path) {
		t.Errorf("path %q should be absolute", path)
	}
	want := filepath.Join(".respkv", "cli.yaml")
	if len(path) < len(want) || path[len(path)-len(want):] != want {
		t.Errorf("path = %q, should end with %q", path, want)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("default_output: json\ntimeout: 2s\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultOutput != "json" || cfg.Timeout != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.DefaultServer != "127.0.0.1:6379" {
		t.Errorf("DefaultServer = %q, want default kept", cfg.DefaultServer)
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("timeout: [nope\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load should fail on malformed YAML")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cli.yaml")

	cfg := Default()
	cfg.DefaultServer = "10.0.0.1:7000"
	cfg.HistoryFile = "/tmp/h"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("got %+v, want %+v", got, cfg)
	}
}

func TestMerge(t *testing.T) {
	base := Default()

	env := map[string]string{
		EnvServer: "env:1",
		EnvOutput: "yaml",
	}
	flags := map[string]string{
		"server":  "flag:2",
		"timeout": "750ms",
	}

	got, err := Merge(base, env, flags)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got.DefaultServer != "flag:2" {
		t.Errorf("server = %q, flag should win", got.DefaultServer)
	}
	if got.DefaultOutput != "yaml" {
		t.Errorf("output = %q, env should apply", got.DefaultOutput)
	}
	if got.Timeout != 750*time.Millisecond {
		t.Errorf("timeout = %v", got.Timeout)
	}
	if base.DefaultServer != "127.0.0.1:6379" {
		t.Error("Merge must not modify its input")
	}
}

func TestMerge_BadTimeout(t *testing.T) {
	if _, err := Merge(Default(), nil, map[string]string{"timeout": "soon"}); err == nil {
		t.Error("Merge should reject a malformed timeout")
	}
}

func TestEnviron(t *testing.T) {
	t.Setenv(EnvServer, "h:1")
	env := Environ()
	if env[EnvServer] != "h:1" {
		t.Errorf("env = %v", env)
	}
}
