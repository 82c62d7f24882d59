package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/pkg/logger"
)

type soloRequest struct {
	Active bool `json:"active"`
	Type   *int `json:"type"`
}

type killRequest struct {
	Overrides bool `json:"overrides"`
}

type emulationRequest struct {
	LegacyColors      *bool `json:"legacy_colors"`
	AdvancedTargeting *bool `json:"advanced_targeting"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// ControlHandler serves the operator commands.
type ControlHandler struct {
	ctrl Controller
	log  logger.Logger
}

// NewControlHandler creates a new control handler.
func NewControlHandler(ctrl Controller, log logger.Logger) *ControlHandler {
	return &ControlHandler{ctrl: ctrl, log: log}
}

// HandleSolo handles POST /solo. Enabling solo requires a type.
func (h *ControlHandler) HandleSolo(w http.ResponseWriter, r *http.Request) {
	const op = "api.solo"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req soloRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	typ := 0
	if req.Type != nil {
		typ = *req.Type
	}
	if req.Active && (req.Type == nil || typ < 0) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("solo needs a non-negative type")))
		return
	}
	h.run(w, r, op, func() error { return h.ctrl.SetSolo(r.Context(), req.Active, typ) })
}

// HandleKill handles POST /kill. An empty body kills the lights; with
// {"overrides":true} it drops every gradient and solid override instead.
func (h *ControlHandler) HandleKill(w http.ResponseWriter, r *http.Request) {
	const op = "api.kill"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req killRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.run(w, r, op, func() error { return h.ctrl.Kill(r.Context(), req.Overrides) })
}

// HandleRefresh handles POST /refresh.
func (h *ControlHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.run(w, r, "api.refresh", func() error { return h.ctrl.Refresh(r.Context()) })
}

// HandleEmulation handles POST /emulation. Both flags must be given.
func (h *ControlHandler) HandleEmulation(w http.ResponseWriter, r *http.Request) {
	const op = "api.emulation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req emulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.LegacyColors == nil || req.AdvancedTargeting == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("legacy_colors and advanced_targeting are required")))
		return
	}
	flags := lighting.Emulation{LegacyColors: *req.LegacyColors, AdvancedTargeting: *req.AdvancedTargeting}
	h.run(w, r, op, func() error { return h.ctrl.SetEmulation(r.Context(), flags) })
}

func (h *ControlHandler) run(w http.ResponseWriter, r *http.Request, op string, fn func() error) {
	if err := fn(); err != nil {
		h.log.Error(r.Context(), "control command failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}
