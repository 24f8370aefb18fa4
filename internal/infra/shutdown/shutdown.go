package shutdown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook releases one resource during shutdown.
type Hook func(context.Context) error

type namedHook struct {
	name string
	fn   Hook
}

// Handler handles graceful shutdown.
type Handler struct {
	timeout time.Duration
	logger  *slog.Logger
	signals []os.Signal

	mu    sync.Mutex
	hooks []namedHook

	trigger  chan struct{}
	trigOnce sync.Once
	done     chan struct{}
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger for hook progress.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithSignals replaces the signals that start shutdown.
func WithSignals(sigs ...os.Signal) Option {
	return func(h *Handler) { h.signals = sigs }
}

// NewHandler creates a handler whose hooks share timeout.
func NewHandler(timeout time.Duration, opts ...Option) *Handler {
	h := &Handler{
		timeout: timeout,
		logger:  slog.Default(),
		signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		trigger: make(chan struct{}),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OnShutdown registers a hook. Hooks run in reverse order of registration.
func (h *Handler) OnShutdown(name string, hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, namedHook{name: name, fn: hook})
}

// Trigger starts shutdown without a signal. It is safe to call repeatedly.
func (h *Handler) Trigger() {
	h.trigOnce.Do(func() { close(h.trigger) })
}

// Wait blocks until a signal arrives, Trigger is called or ctx ends, then
// runs every hook and returns their joined errors.
func (h *Handler) Wait(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	if len(h.signals) > 0 {
		signal.Notify(sigCh, h.signals...)
		defer signal.Stop(sigCh)
	}

	select {
	case sig := <-sigCh:
		h.logger.Info("shutdown signal received", "signal", sig.String())
	case <-h.trigger:
		h.logger.Info("shutdown requested")
	case <-ctx.Done():
		h.logger.Info("shutdown on context end", "cause", context.Cause(ctx))
	}

	return h.run()
}

func (h *Handler) run() error {
	defer close(h.done)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]namedHook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		hk := hooks[i]
		start := time.Now()
		if err := hk.fn(ctx); err != nil {
			h.logger.Error("shutdown hook failed", "hook", hk.name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", hk.name, err))
			continue
		}
		h.logger.Debug("shutdown hook done", "hook", hk.name, "elapsed", time.Since(start))
	}
	return errors.Join(errs...)
}

// Done returns a channel that closes when every hook has run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
