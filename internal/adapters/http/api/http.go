// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/internal/domain/dedupe"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
	"github.com/okian/lightshow/pkg/logger"
)

// Controller forwards operator commands to the goroutine that owns the
// engine.
type Controller interface {
	SetSolo(ctx context.Context, active bool, eventType int) error
	Kill(ctx context.Context, overrides bool) error
	Refresh(ctx context.Context) error
	SetEmulation(ctx context.Context, flags lighting.Emulation) error

	// EngineSnapshot returns modifiers and per-group engine state.
	EngineSnapshot(ctx context.Context) (lighting.Snapshot, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper
	Controller

	// Enqueue pushes a live event to the player. Returns an error on
	// backpressure or after shutdown.
	Enqueue(ctx context.Context, e model.Event) error

	// Lights exposes rendered light state.
	Lights(ctx context.Context, group string) ([]repository.LightState, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	eventsHandler  *EventsHandler
	controlHandler *ControlHandler
	groupsHandler  *GroupsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := serverConfig{log: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:  NewHealthHandler(cfg.checks...),
		statsHandler:   NewStatsHandler(statsProvider),
		eventsHandler:  NewEventsHandler(deps, cfg.log),
		controlHandler: NewControlHandler(deps, cfg.log),
		groupsHandler:  NewGroupsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/solo", MetricsMiddleware(s.controlHandler.HandleSolo, "solo"))
	mux.HandleFunc("/kill", MetricsMiddleware(s.controlHandler.HandleKill, "kill"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.controlHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/emulation", MetricsMiddleware(s.controlHandler.HandleEmulation, "emulation"))
	mux.HandleFunc("/groups", MetricsMiddleware(s.groupsHandler.HandleGroups, "groups"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
