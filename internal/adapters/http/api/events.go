package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/lightshow/internal/adapters/mq/queue"
	"github.com/okian/lightshow/internal/domain/dedupe"
	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/pkg/logger"
	"github.com/okian/lightshow/pkg/metrics"
)

// EventDependencies defines the interface for event processing dependencies.
type EventDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, e model.Event) error
}

// eventRequest is the body of POST /events.
type eventRequest struct {
	EventID    string         `json:"event_id"`
	Type       *int           `json:"type"`
	Value      *int           `json:"value"`
	Time       *float64       `json:"time"`
	CustomData map[string]any `json:"custom_data,omitempty"`
}

func (e eventRequest) validate() error {
	switch {
	case e.Type == nil:
		return errors.New("missing type")
	case e.Value == nil:
		return errors.New("missing value")
	case e.Time == nil:
		return errors.New("missing time")
	}
	return nil
}

// event converts a validated request. A blank event_id gets a fresh UUID,
// which the response echoes back for retries.
func (e eventRequest) event() (model.Event, error) {
	ev := model.Event{
		ID:    strings.TrimSpace(e.EventID),
		Type:  *e.Type,
		Value: *e.Value,
		Time:  *e.Time,
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	cd, err := model.DecodeCustomData(e.CustomData)
	if err != nil {
		return model.Event{}, err
	}
	ev.Custom = cd
	if err := ev.Validate(); err != nil {
		return model.Event{}, err
	}
	return ev, nil
}

type ackResponse struct {
	Status    string `json:"status"`
	EventID   string `json:"event_id"`
	Duplicate bool   `json:"duplicate"`
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
	log  logger.Logger
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, log logger.Logger) *EventsHandler {
	return &EventsHandler{deps: deps, log: log}
}

// HandlePostEvent handles POST /events requests.
func (h *EventsHandler) HandlePostEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_event"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req eventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, err := req.event()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), ev.ID) {
		metrics.RecordEventDuplicate()
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", EventID: ev.ID, Duplicate: true})
		return
	}

	if err := h.deps.Enqueue(r.Context(), ev); err != nil {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), ev.ID)
		if errors.Is(err, queue.ErrClosed) {
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		h.log.Warn(r.Context(), "event rejected", logger.String("event_id", ev.ID), logger.Error(err))
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", EventID: ev.ID})
}
