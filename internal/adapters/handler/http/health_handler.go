package http

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	storage string
	ping    Pinger
	started time.Time
	rs      *Responder
}

func NewHealthHandler(storage string, ping Pinger, rs *Responder) *HealthHandler {
	return &HealthHandler{
		storage: storage,
		ping:    ping,
		started: now(),
		rs:      rs,
	}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	state, status := "connected", http.StatusOK
	if h.ping != nil {
		if err := h.ping(r.Context()); err != nil {
			h.rs.log.Warn(r.Context(), "health check failed", "storage", h.storage, "error", err.Error())
			state, status = "disconnected", http.StatusServiceUnavailable
		}
	}

	body := map[string]any{
		"status": "OK",
		"uptime": int64(now().Sub(h.started).Seconds()),
		"storage": map[string]string{
			"type":  h.storage,
			"state": state,
		},
	}
	if status != http.StatusOK {
		body["status"] = "DEGRADED"
		h.rs.Fail(w, status, "Storage unavailable", body)
		return
	}
	h.rs.OK(w, status, "Server is running", body)
}
