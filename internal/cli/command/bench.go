package command

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/respkv/internal/cli/output"
	"github.com/yndnr/respkv/internal/client"
)

// BenchCommand returns the bench command.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Generate load against the server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "clients",
				Aliases: []string{"c"},
				Usage:   "concurrent connections",
				Value:   10,
			},
			&cli.IntFlag{
				Name:    "requests",
				Aliases: []string{"n"},
				Usage:   "total requests",
				Value:   10000,
			},
			&cli.Float64Flag{
				Name:  "qps",
				Usage: "overall request rate limit (0 = unlimited)",
			},
			&cli.StringFlag{
				Name:  "command",
				Usage: "command mix: ping, set, get or setget",
				Value: "setget",
			},
			&cli.IntFlag{
				Name:  "keyspace",
				Usage: "number of distinct keys",
				Value: 1000,
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "hide the progress bar",
			},
		},
		Action: benchAction,
	}
}

// BenchOptions configures RunBench.
type BenchOptions struct {
	Addr     string
	Clients  int
	Requests int
	QPS      float64
	Command  string
	Keyspace int
	Timeout  time.Duration

	// OnDone is called after each request, successful or not.
	OnDone func()
}

// BenchReport summarises a bench run.
type BenchReport struct {
	Requests     int     `json:"requests" yaml:"requests"`
	Errors       int64   `json:"errors" yaml:"errors"`
	ErrorReplies int64   `json:"error_replies" yaml:"error_replies"`
	DurationMS   int64   `json:"duration_ms" yaml:"duration_ms"`
	OpsPerSec    float64 `json:"ops_per_sec" yaml:"ops_per_sec"`
	P50Micros    int64   `json:"p50_us" yaml:"p50_us"`
	P99Micros    int64   `json:"p99_us" yaml:"p99_us"`
	MaxMicros    int64   `json:"max_us" yaml:"max_us"`
}

// Table renders the report for raw output.
func (r *BenchReport) Table() *output.Table {
	t := output.NewTable("METRIC", "VALUE")
	t.AddRow("requests", strconv.Itoa(r.Requests))
	t.AddRow("errors", strconv.FormatInt(r.Errors, 10))
	t.AddRow("error replies", strconv.FormatInt(r.ErrorReplies, 10))
	t.AddRow("duration", (time.Duration(r.DurationMS) * time.Millisecond).String())
	t.AddRow("ops/sec", strconv.FormatFloat(r.OpsPerSec, 'f', 1, 64))
	t.AddRow("p50", (time.Duration(r.P50Micros) * time.Microsecond).String())
	t.AddRow("p99", (time.Duration(r.P99Micros) * time.Microsecond).String())
	t.AddRow("max", (time.Duration(r.MaxMicros) * time.Microsecond).String())
	return t
}

func benchAction(c *cli.Context) error {
	s := GetSettings(c)
	opts := BenchOptions{
		Addr:     s.Server,
		Clients:  c.Int("clients"),
		Requests: c.Int("requests"),
		QPS:      c.Float64("qps"),
		Command:  c.String("command"),
		Keyspace: c.Int("keyspace"),
		Timeout:  s.Timeout,
	}

	var bar *output.ProgressBar
	if !c.Bool("quiet") && s.Output == output.FormatRaw {
		bar = output.NewProgressBar(os.Stderr, "bench", int64(opts.Requests))
		opts.OnDone = func() { bar.Increment(1) }
	}

	report, err := RunBench(c.Context, opts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	if s.Output == output.FormatRaw {
		return printResult(c, report.Table())
	}
	return printResult(c, report)
}

// RunBench issues opts.Requests commands over opts.Clients pooled
// connections, optionally paced by a token bucket.
func RunBench(ctx context.Context, opts BenchOptions) (*BenchReport, error) {
	if opts.Clients <= 0 || opts.Requests <= 0 {
		return nil, fmt.Errorf("clients and requests must be positive")
	}
	if opts.Keyspace <= 0 {
		opts.Keyspace = 1
	}
	gen, err := commandGenerator(opts.Command, opts.Keyspace)
	if err != nil {
		return nil, err
	}

	pool := client.NewPool(ctx, opts.Addr, client.PoolConfig{
		MaxTotal:       opts.Clients,
		MaxIdle:        opts.Clients,
		RequestTimeout: opts.Timeout,
	})
	defer pool.Close(context.Background())

	// Fail fast when the server is unreachable.
	if _, err := pool.Do(ctx, "PING"); err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if opts.QPS > 0 {
		burst := int(math.Ceil(opts.QPS / 10))
		limiter = rate.NewLimiter(rate.Limit(opts.QPS), max(burst, 1))
	}

	var (
		next         atomic.Int64
		errs         atomic.Int64
		errorReplies atomic.Int64
		wg           sync.WaitGroup
	)
	latencies := make([][]time.Duration, opts.Clients)

	start := time.Now()
	for w := 0; w < opts.Clients; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for {
				i := next.Add(1) - 1
				if i >= int64(opts.Requests) || ctx.Err() != nil {
					return
				}
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}

				t0 := time.Now()
				reply, err := pool.Do(ctx, gen(i)...)
				latencies[w] = append(latencies[w], time.Since(t0))

				switch {
				case err != nil:
					errs.Add(1)
				case client.AsError(reply) != nil:
					errorReplies.Add(1)
				}
				if opts.OnDone != nil {
					opts.OnDone()
				}
			}
		}(w)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all := slices.Concat(latencies...)
	slices.Sort(all)

	report := &BenchReport{
		Requests:     len(all),
		Errors:       errs.Load(),
		ErrorReplies: errorReplies.Load(),
		DurationMS:   elapsed.Milliseconds(),
		P50Micros:    percentile(all, 0.50).Microseconds(),
		P99Micros:    percentile(all, 0.99).Microseconds(),
	}
	if len(all) > 0 {
		report.MaxMicros = all[len(all)-1].Microseconds()
	}
	if elapsed > 0 {
		report.OpsPerSec = float64(len(all)) / elapsed.Seconds()
	}
	return report, nil
}

func commandGenerator(name string, keyspace int) (func(i int64) []string, error) {
	key := func(i int64) string {
		return "bench:" + strconv.FormatInt(i%int64(keyspace), 10)
	}
	switch name {
	case "ping":
		return func(int64) []string { return []string{"PING"} }, nil
	case "set":
		return func(i int64) []string { return []string{"SET", key(i), "v"} }, nil
	case "get":
		return func(i int64) []string { return []string{"GET", key(i)} }, nil
	case "setget":
		return func(i int64) []string {
			if i%2 == 0 {
				return []string{"SET", key(i / 2), "v"}
			}
			return []string{"GET", key(i / 2)}
		}, nil
	default:
		return nil, fmt.Errorf("unknown bench command %q", name)
	}
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}
