package api

import (
	"context"
	"net/http"

	"github.com/okian/lightshow/internal/adapters/repository"
	"github.com/okian/lightshow/internal/domain/lighting"
)

// GroupsDependencies reads engine and rendered state.
type GroupsDependencies interface {
	Controller
	Lights(ctx context.Context, group string) ([]repository.LightState, error)
}

type lightView struct {
	Index      int     `json:"index"`
	Inverted   bool    `json:"inverted"`
	Color      string  `json:"color"`
	Alpha      float64 `json:"alpha"`
	Multiplier float64 `json:"multiplier"`
	Effect     string  `json:"effect,omitempty"`
}

type gradientView struct {
	State    string  `json:"state"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Easing   string  `json:"easing"`
	From     string  `json:"from"`
	To       string  `json:"to"`
}

type groupView struct {
	Name      string        `json:"name"`
	Type      int           `json:"type"`
	Props     int           `json:"props"`
	LastValue int           `json:"last_value"`
	Solid     string        `json:"solid,omitempty"`
	Gradient  *gradientView `json:"gradient,omitempty"`
	Lights    []lightView   `json:"lights"`
}

type groupsResponse struct {
	SoloActive  bool        `json:"solo_active"`
	SoloType    int         `json:"solo_type"`
	BoostActive bool        `json:"boost_active"`
	Groups      []groupView `json:"groups"`
}

// GroupsHandler handles GET /groups.
type GroupsHandler struct {
	deps GroupsDependencies
}

// NewGroupsHandler creates a new groups handler.
func NewGroupsHandler(deps GroupsDependencies) *GroupsHandler {
	return &GroupsHandler{deps: deps}
}

// HandleGroups handles GET /groups requests.
func (h *GroupsHandler) HandleGroups(w http.ResponseWriter, r *http.Request) {
	const op = "api.groups"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.deps.EngineSnapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		return
	}
	resp := groupsResponse{
		SoloActive:  snap.Modifiers.SoloActive,
		SoloType:    snap.Modifiers.SoloType,
		BoostActive: snap.Modifiers.BoostActive,
		Groups:      make([]groupView, 0, len(snap.Groups)),
	}
	for i := range snap.Groups {
		// A group the store has not rendered yet lists no lights.
		lights, _ := h.deps.Lights(r.Context(), snap.Groups[i].Name)
		resp.Groups = append(resp.Groups, newGroupView(&snap.Groups[i], lights))
	}
	writeJSON(w, http.StatusOK, resp)
}

func newGroupView(g *lighting.GroupSnapshot, lights []repository.LightState) groupView {
	v := groupView{
		Name:      g.Name,
		Type:      g.Type,
		Props:     g.Props,
		LastValue: g.LastValue,
		Lights:    make([]lightView, 0, len(lights)),
	}
	if g.Solid != nil {
		v.Solid = g.Solid.Hex()
	}
	if gr := g.Gradient; gr != nil {
		v.Gradient = &gradientView{
			State:    gr.State.String(),
			Start:    gr.Start,
			Duration: gr.Duration,
			Easing:   gr.Easing,
			From:     gr.From.Hex(),
			To:       gr.To.Hex(),
		}
	}
	for _, l := range lights {
		v.Lights = append(v.Lights, lightView{
			Index:      l.Index,
			Inverted:   l.Inverted,
			Color:      l.Color.Hex(),
			Alpha:      l.Alpha,
			Multiplier: l.Multiplier,
			Effect:     l.Effect,
		})
	}
	return v
}
