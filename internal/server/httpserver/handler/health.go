package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/respkv/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.status("healthy"))
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			st := h.status("not_ready")
			st.Reason = err.Error()
			h.writeError(w, r, http.StatusServiceUnavailable, "NOT_READY", "service not ready", st)
			return
		}
	}
	h.writeJSON(w, r, http.StatusOK, h.status("ready"))
}

func (h *Handler) status(s string) HealthStatus {
	now := h.now()
	return HealthStatus{
		Status:        s,
		Time:          now.UTC().Format(time.RFC3339),
		Version:       buildinfo.Get().Version,
		UptimeSeconds: int64(now.Sub(h.started) / time.Second),
	}
}
