package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/telemetry/logger"
)

// Config configures a Handler.
type Config struct {
	// Ready returns nil once the server accepts RESP connections.
	Ready func() error

	// Now overrides the clock; nil uses time.Now.
	Now func() time.Time
}

// Handler serves the admin endpoints.
type Handler struct {
	ready   func() error
	now     func() time.Time
	started time.Time
	mux     *http.ServeMux
}

// New creates a Handler.
func New(cfg Config) *Handler {
	h := &Handler{
		ready: cfg.Ready,
		now:   cfg.Now,
		mux:   http.NewServeMux(),
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.started = h.now()

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	h.write(w, r, status, NewResponse(logger.RequestIDFromContext(r.Context()), data))
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	w.Header().Set("X-Error-Code", code)
	h.write(w, r, status, NewErrorResponse(logger.RequestIDFromContext(r.Context()), code, message, details))
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, status int, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}
