package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ChandanM123456/TaskFlow/internal/api/respond"
	"github.com/ChandanM123456/TaskFlow/internal/model"
	"github.com/ChandanM123456/TaskFlow/internal/store"
)

// EventsHandler is the ingest sink telemetry clients flush to.
type EventsHandler struct {
	store    store.Store
	maxBatch int
	log      zerolog.Logger
}

func NewEventsHandler(st store.Store, maxBatch int, log zerolog.Logger) *EventsHandler {
	if maxBatch <= 0 {
		maxBatch = 500
	}
	return &EventsHandler{store: st, maxBatch: maxBatch, log: log}
}

// Ingest POST /v0/events
//
// Accepts {"session": "...", "events": [...]} and responds 202 with the
// accepted count. Any 2xx is a confirmed flush from the client's point of
// view, so the batch is persisted before the response is written.
func (h *EventsHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req model.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Session) == "" {
		respond.WriteBadRequest(w, "session is required")
		return
	}
	if len(req.Events) == 0 {
		respond.WriteBadRequest(w, "events must not be empty")
		return
	}
	if len(req.Events) > h.maxBatch {
		respond.WriteError(w, http.StatusRequestEntityTooLarge, "batch exceeds limit")
		return
	}

	now := time.Now().UTC()
	for i := range req.Events {
		ev := &req.Events[i]
		// Stamp what sloppy producers omit; the envelope stays open.
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = now
		}
		if ev.Session == "" {
			ev.Session = req.Session
		}
	}

	if err := h.store.AppendEvents(r.Context(), req.Events); err != nil {
		h.log.Error().Stack().Err(err).Int("events", len(req.Events)).Msg("event batch append failed")
		respond.WriteInternalError(w, "failed to store events")
		return
	}

	eventsIngestedTotal.Add(float64(len(req.Events)))
	h.log.Debug().Str("session", req.Session).Int("events", len(req.Events)).Msg("event batch ingested")
	respond.WriteJSON(w, http.StatusAccepted, model.IngestResponse{Accepted: len(req.Events)})
}

// defaultListLimit bounds unfiltered reads of the event log.
const defaultListLimit = 100

// List GET /v0/events
//
// Reads back ingested events, oldest first, filtered by the session, type,
// since, and limit query parameters.
func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := model.ListEventsRequest{
		Session: strings.TrimSpace(q.Get("session")),
		Type:    strings.TrimSpace(q.Get("type")),
		Limit:   defaultListLimit,
	}

	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		req.Limit = n
	}
	if req.Limit > h.maxBatch {
		req.Limit = h.maxBatch
	}

	if raw := q.Get("since"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respond.WriteBadRequest(w, "since must be an RFC 3339 timestamp")
			return
		}
		req.Since = &ts
	}

	events, err := h.store.ListEvents(r.Context(), req)
	if err != nil {
		h.log.Error().Stack().Err(err).Msg("event list failed")
		respond.WriteInternalError(w, "failed to list events")
		return
	}

	respond.WriteJSON(w, http.StatusOK, model.ListEventsResponse{Events: events, Count: len(events)})
}
