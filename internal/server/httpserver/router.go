package httpserver

import (
	"net/http"

	"github.com/yndnr/respkv/internal/server/httpserver/handler"
	"github.com/yndnr/respkv/internal/telemetry/logger"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Logger is attached to each request context. Nil uses logger.Default.
	Logger logger.Logger

	// Metrics is served on /metrics. Nil uses the global registry.
	Metrics *metric.Registry

	// Ready reports whether the RESP listener accepts connections.
	// Nil means always ready.
	Ready func() error
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	h := handler.New(handler.Config{
		Ready: cfg.Ready,
	})

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = metric.Global()
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", h)
	mux.Handle("GET /ready", h)
	mux.Handle("GET /metrics", metrics.Handler())

	return Chain(mux,
		RequestID(cfg.Logger),
		AccessLog(),
		Recover(),
	)
}
