package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ChandanM123456/TaskFlow/internal/api/respond"
	"github.com/ChandanM123456/TaskFlow/internal/store"
)

// HealthHandler reports service liveness plus event-store reachability.
type HealthHandler struct {
	store        store.Store
	probeTimeout time.Duration
}

func NewHealthHandler(st store.Store) *HealthHandler {
	return &HealthHandler{store: st, probeTimeout: 2 * time.Second}
}

// CheckHealth GET /v0/health
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.probeTimeout)
	defer cancel()

	body := map[string]interface{}{
		"status":    "healthy",
		"service":   "taskflow-telemetry",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.store.HealthCheck(ctx); err != nil {
		body["status"] = "unhealthy"
	} else if n, err := h.store.CountEvents(ctx); err == nil {
		body["events"] = n
	}
	respond.WriteJSON(w, http.StatusOK, body)
}
