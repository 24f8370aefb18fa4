package command

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/respkv/internal/server/redisserver"
	"github.com/yndnr/respkv/internal/storage/memory"
)

// startServer runs a respkv server on a loopback port.
func startServer(t *testing.T) string {
	t.Helper()
	cfg := redisserver.DefaultConfig()
	cfg.Address = "127.0.0.1:0"

	srv := redisserver.New(cfg, memory.New(), nil, nil)
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv.Addr().String()
}

// runCLI runs the app with args against addr and returns stdout.
func runCLI(t *testing.T, addr, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer

	app := App()
	app.Writer = &out
	app.ErrWriter = &out
	app.Reader = strings.NewReader(stdin)

	full := []string{"respkv-cli", "--config", filepath.Join(t.TempDir(), "cli.yaml")}
	if addr != "" {
		full = append(full, "--server", addr)
	}
	full = append(full, args...)

	err := app.Run(full)
	return out.String(), err
}
