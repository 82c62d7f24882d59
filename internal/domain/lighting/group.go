package lighting

import (
	"slices"
	"sort"

	"github.com/okian/lightshow/internal/domain/color"
)

// Light is one addressable light inside a group.
type Light struct {
	Index    int  // runtime position inside the group
	Inverted bool // uses the inverted palette
	Prop     int  // depth cluster the light belongs to
}

// Group is a set of lights driven by one event type.
type Group struct {
	Name   string
	Type   int
	Lights []*Light

	// LightIDMap and PropIDMap translate editor ids to runtime indices:
	// the runtime index is the position of the editor id in the table.
	LightIDMap []int
	PropIDMap  []int

	Rotating []RotatingLight

	props     [][]*Light
	lastValue int
	override  Override
}

// GroupOption configures a Group.
type GroupOption func(*Group)

// WithLightIDMap sets the editor to runtime light id table.
func WithLightIDMap(ids []int) GroupOption {
	return func(g *Group) { g.LightIDMap = slices.Clone(ids) }
}

// WithPropIDMap sets the editor to runtime prop id table.
func WithPropIDMap(ids []int) GroupOption {
	return func(g *Group) { g.PropIDMap = slices.Clone(ids) }
}

// WithRotatingLights attaches rotating elements that react to laser speed events.
func WithRotatingLights(r ...RotatingLight) GroupOption {
	return func(g *Group) { g.Rotating = append(g.Rotating, r...) }
}

// NewGroup builds a group. Light indices are reassigned to their slice
// position and prop clusters are ordered by prop value.
func NewGroup(name string, eventType int, lights []*Light, opts ...GroupOption) *Group {
	g := &Group{Name: name, Type: eventType, Lights: lights}
	for i, l := range lights {
		l.Index = i
	}
	g.props = clusterByProp(lights)

	for _, opt := range opts {
		opt(g)
	}
	if g.LightIDMap == nil {
		g.LightIDMap = identity(len(lights))
	}
	if g.PropIDMap == nil {
		g.PropIDMap = identity(len(g.props))
	}
	return g
}

// Props returns the prop clusters.
func (g *Group) Props() [][]*Light { return g.props }

// LastValue returns the last value code applied to the group.
func (g *Group) LastValue() int { return g.lastValue }

// Solid returns the stored solid override, if any.
func (g *Group) Solid() (color.Color, bool) { return g.override.Solid() }

// Gradient returns the attached gradient task or nil.
func (g *Group) Gradient() *GradientTask { return g.override.gradient }

func (g *Group) lightIndex(editorID int) int { return slices.Index(g.LightIDMap, editorID) }

func (g *Group) propIndex(editorID int) int { return slices.Index(g.PropIDMap, editorID) }

func clusterByProp(lights []*Light) [][]*Light {
	byProp := make(map[int][]*Light)
	for _, l := range lights {
		byProp[l.Prop] = append(byProp[l.Prop], l)
	}
	keys := make([]int, 0, len(byProp))
	for k := range byProp {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([][]*Light, 0, len(keys))
	for _, k := range keys {
		out = append(out, byProp[k])
	}
	return out
}

func identity(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func split(targets []*Light) (normal, inverted []*Light) {
	for _, l := range targets {
		if l.Inverted {
			inverted = append(inverted, l)
		} else {
			normal = append(normal, l)
		}
	}
	return normal, inverted
}
