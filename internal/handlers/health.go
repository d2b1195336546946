package handlers

import (
	"net/http"
	"time"
)

// HealthHandlers reports process liveness for monitoring probes.
type HealthHandlers struct {
	startTime time.Time
	clock     func() time.Time
}

// NewHealthHandlers constructs health handlers anchored at the current time.
func NewHealthHandlers() *HealthHandlers {
	return &HealthHandlers{startTime: time.Now(), clock: time.Now}
}

// Healthz responds with a simple status payload for monitoring and readiness checks.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, r *http.Request) {
	now := h.clock()
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.startTime).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}
