package redisserver

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/respkv/internal/resp"
	"github.com/yndnr/respkv/internal/storage/memory"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// Store is the key-value store the Dispatcher reads and writes.
type Store interface {
	Get(key resp.Token) resp.Token
	Set(key, value resp.Token, expiry memory.Expiry)
	// Now returns the store clock in milliseconds since the Unix epoch.
	Now() int64
}

// Error replies.
const (
	errNoCommand     = "ERR no command"
	errNotInteger    = "ERR value is not an integer or out of range"
	errInternal      = "ERR internal error"
	errExpectedArray = "ERR expected array"
	errRateLimited   = "ERR rate limit exceeded"
	errLimitExceeded = "ERR protocol limit exceeded"
)

func errWrongArgs(c resp.Command) resp.Token {
	return resp.Error("ERR wrong number of arguments for '" + strings.ToLower(c.String()) + "' command")
}

func errUnknownCommand(name string) resp.Token {
	return resp.Error("ERR unknown command '" + name + "'")
}

// Dispatcher turns a decoded request into a reply against a Store.
// It holds no per-connection state and is safe for concurrent use.
type Dispatcher struct {
	store   Store
	strict  bool
	logger  *slog.Logger
	metrics *metric.Registry
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithStrict makes unknown commands and non-array requests answer with an
// error instead of the permissive +OK.
func WithStrict(strict bool) DispatcherOption {
	return func(d *Dispatcher) { d.strict = strict }
}

// WithLogger sets the logger used for dispatch traces and recovered panics.
func WithLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics records per-command counts and latency.
func WithMetrics(m *metric.Registry) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// NewDispatcher creates a Dispatcher over store.
func NewDispatcher(store Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes one top-level request token. It reports false when the
// request gets no reply at all, which is the case for non-array tokens
// outside strict mode.
func (d *Dispatcher) Dispatch(req resp.Token) (reply resp.Token, ok bool) {
	if req.Kind != resp.KindArray {
		if d.strict {
			return resp.Error(errExpectedArray), true
		}
		d.logger.Debug("ignoring non-array request", "kind", req.Kind.String())
		return resp.Token{}, false
	}

	label := "unknown"
	if len(req.Elems) > 0 && req.Elems[0].Kind == resp.KindCommand {
		label = req.Elems[0].Cmd.String()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in command dispatch", "command", label, "panic", fmt.Sprint(r))
			reply, ok = resp.Error(errInternal), true
		}
		d.metrics.ObserveCommand(label, time.Since(start))
	}()

	return d.dispatch(req.Elems), true
}

func (d *Dispatcher) dispatch(args []resp.Token) resp.Token {
	if len(args) == 0 {
		return resp.Error(errNoCommand)
	}

	head := args[0]
	if head.Kind != resp.KindCommand {
		return d.fallback(head.Literal().String())
	}

	switch head.Cmd {
	case resp.CommandPing:
		return resp.Pong
	case resp.CommandEcho:
		return d.echo(args)
	case resp.CommandGet:
		return d.get(args)
	case resp.CommandSet:
		return d.set(args)
	default:
		return d.fallback(strings.ToLower(head.Cmd.String()))
	}
}

func (d *Dispatcher) fallback(name string) resp.Token {
	if d.strict {
		return errUnknownCommand(name)
	}
	return resp.OK
}

// ECHO message
func (d *Dispatcher) echo(args []resp.Token) resp.Token {
	if len(args) < 2 {
		return errWrongArgs(resp.CommandEcho)
	}
	return args[1].Literal()
}

// GET key
func (d *Dispatcher) get(args []resp.Token) resp.Token {
	if len(args) < 2 {
		return errWrongArgs(resp.CommandGet)
	}
	return d.store.Get(args[1])
}

// SET key value [PX milliseconds]
//
// Trailing arguments other than PX are ignored.
func (d *Dispatcher) set(args []resp.Token) resp.Token {
	if len(args) < 3 {
		return errWrongArgs(resp.CommandSet)
	}
	// Keys compare structurally, so a key spelled like a command matches
	// it case-insensitively. Values must stay encodable.
	key, value := args[1], args[2].Literal()

	expiry := memory.NoExpiry
	if len(args) > 3 && args[3].IsCommand(resp.CommandPX) {
		if len(args) < 5 {
			return errWrongArgs(resp.CommandSet)
		}
		ms, ok := parseMillis(args[4])
		if !ok {
			return resp.Error(errNotInteger)
		}
		now := d.store.Now()
		if ms > math.MaxInt64-now {
			return resp.Error(errNotInteger)
		}
		expiry = memory.ExpireAt(now + ms)
	}

	d.store.Set(key, value, expiry)
	return resp.OK
}

// parseMillis accepts a non-negative Integer, or a bulk string holding one.
func parseMillis(t resp.Token) (int64, bool) {
	switch t.Kind {
	case resp.KindInteger:
		return t.Int, t.Int >= 0
	case resp.KindBulkString:
		n, err := strconv.ParseInt(t.Str, 10, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
