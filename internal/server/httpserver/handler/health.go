package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:         "healthy",
		Time:           time.Now().UTC().Format(time.RFC3339),
		ActiveSessions: h.ctrl.ActiveSessions(),
		Version:        h.version,
	})
}
