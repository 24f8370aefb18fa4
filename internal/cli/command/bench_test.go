package command

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunBench(t *testing.T) {
	addr := startServer(t)

	for _, cmd := range []string{"ping", "set", "get", "setget"} {
		t.Run(cmd, func(t *testing.T) {
			var done atomic.Int64

			report, err := RunBench(context.Background(), BenchOptions{
				Addr:     addr,
				Clients:  4,
				Requests: 200,
				Command:  cmd,
				Keyspace: 10,
				Timeout:  time.Second,
				OnDone:   func() { done.Add(1) },
			})
			if err != nil {
				t.Fatalf("RunBench: %v", err)
			}
			if report.Requests != 200 || done.Load() != 200 {
				t.Errorf("requests = %d, callbacks = %d", report.Requests, done.Load())
			}
			if report.Errors != 0 || report.ErrorReplies != 0 {
				t.Errorf("errors = %d, error replies = %d", report.Errors, report.ErrorReplies)
			}
			if report.P50Micros > report.P99Micros || report.P99Micros > report.MaxMicros {
				t.Errorf("percentiles out of order: %+v", report)
			}
		})
	}
}

func TestRunBench_QPS(t *testing.T) {
	addr := startServer(t)

	start := time.Now()
	report, err := RunBench(context.Background(), BenchOptions{
		Addr:     addr,
		Clients:  2,
		Requests: 30,
		QPS:      100,
		Command:  "ping",
		Timeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("RunBench: %v", err)
	}
	// Burst of 10, then 20 more at 100/s.
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("elapsed = %v, rate limit not applied", elapsed)
	}
	if report.Requests != 30 {
		t.Errorf("requests = %d", report.Requests)
	}
}

func TestRunBench_Invalid(t *testing.T) {
	ctx := context.Background()
	if _, err := RunBench(ctx, BenchOptions{Addr: "127.0.0.1:1", Clients: 0, Requests: 1}); err == nil {
		t.Error("zero clients should fail")
	}
	if _, err := RunBench(ctx, BenchOptions{Addr: "127.0.0.1:1", Clients: 1, Requests: 1, Command: "del"}); err == nil {
		t.Error("unknown command should fail")
	}
	if _, err := RunBench(ctx, BenchOptions{Addr: "127.0.0.1:1", Clients: 1, Requests: 1, Command: "ping", Timeout: time.Second}); err == nil {
		t.Error("unreachable server should fail")
	}
}

func TestBenchCommand_JSON(t *testing.T) {
	addr := startServer(t)

	out, err := runCLI(t, addr, "", "-o", "json", "bench", "-c", "2", "-n", "20", "--command", "ping")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var report BenchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("unmarshal %q: %v", out, err)
	}
	if report.Requests != 20 {
		t.Errorf("requests = %d", report.Requests)
	}
}

func TestBenchCommand_RawTable(t *testing.T) {
	addr := startServer(t)

	out, err := runCLI(t, addr, "", "bench", "-q", "-c", "1", "-n", "5", "--command", "set")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"METRIC", "requests", "ops/sec", "p99"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPercentile(t *testing.T) {
	d := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(d, 0.5); got != 5 {
		t.Errorf("p50 = %v", got)
	}
	if got := percentile(d, 0.99); got != 10 {
		t.Errorf("p99 = %v", got)
	}
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("empty = %v", got)
	}
}
