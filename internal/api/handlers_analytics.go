package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ChandanM123456/TaskFlow/internal/analytics"
	"github.com/ChandanM123456/TaskFlow/internal/api/respond"
	"github.com/ChandanM123456/TaskFlow/internal/model"
	"github.com/ChandanM123456/TaskFlow/internal/store"
)

// SnapshotSource supplies the current task and employee lists owned by the
// TaskFlow CRUD subsystem.
type SnapshotSource interface {
	FetchTasks(ctx context.Context) ([]model.Task, error)
	FetchEmployees(ctx context.Context) ([]model.Employee, error)
}

// AnalyticsHandler recomputes the dashboard on demand from the live event
// history and the current task snapshot. Nothing is cached or incrementally
// maintained.
type AnalyticsHandler struct {
	store    store.Store
	snapshot SnapshotSource
	log      zerolog.Logger
	now      func() time.Time
}

func NewAnalyticsHandler(st store.Store, src SnapshotSource, log zerolog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{store: st, snapshot: src, log: log, now: time.Now}
}

// Dashboard GET /v0/analytics/dashboard
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.snapshot.FetchTasks(ctx)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("task snapshot fetch failed")
		respond.WriteError(w, http.StatusBadGateway, "task snapshot unavailable")
		return
	}
	employees, err := h.snapshot.FetchEmployees(ctx)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("employee snapshot fetch failed")
		respond.WriteError(w, http.StatusBadGateway, "employee snapshot unavailable")
		return
	}

	events, err := h.store.ListEvents(ctx, model.ListEventsRequest{})
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("event history load failed")
		respond.WriteInternalError(w, "failed to load event history")
		return
	}

	now := h.now()
	agg := analytics.Aggregate(now, tasks, events)
	respond.WriteJSON(w, http.StatusOK, model.DashboardResponse{
		Aggregation: agg,
		Suggestions: analytics.Suggest(now, agg, tasks),
		Employees:   employees,
		GeneratedAt: now,
	})
}
