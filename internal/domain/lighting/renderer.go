package lighting

import (
	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/model"
)

// Renderer receives the visual primitives the engine issues for a group.
// Calls arrive from the goroutine that owns the engine.
type Renderer interface {
	ChangeColor(g *Group, c color.Color, speed float64, targets []*Light)
	ChangeAlpha(g *Group, alpha, speed float64, targets []*Light)
	ChangeMultiplierAlpha(g *Group, factor float64, targets []*Light)
	Flash(g *Group, c color.Color, targets []*Light)
	Fade(g *Group, c color.Color, targets []*Light)
	SetValue(g *Group, value int)
	Boost(g *Group, red, blue color.Color)
}

// Clock reports the current playback position in beats.
type Clock interface {
	CurrentBeat() float64
}

// RingHandler drives a ring subsystem.
type RingHandler interface {
	HandleRotationEvent(custom *model.CustomData)
	HandlePositionEvent()
}

// RotatingLight is a laser whose spin reacts to speed events.
type RotatingLight interface {
	UpdateOffset(value, angle int, clockwise bool, custom *model.CustomData)
}

// Codec decodes colors packed into event values.
type Codec interface {
	Decode(v int) color.Color
	IsPacked(v int) bool
	IsReset(v int) bool
}

// Fanout forwards every primitive to each renderer in order.
type Fanout []Renderer

func (f Fanout) ChangeColor(g *Group, c color.Color, speed float64, targets []*Light) {
	for _, r := range f {
		r.ChangeColor(g, c, speed, targets)
	}
}

func (f Fanout) ChangeAlpha(g *Group, alpha, speed float64, targets []*Light) {
	for _, r := range f {
		r.ChangeAlpha(g, alpha, speed, targets)
	}
}

func (f Fanout) ChangeMultiplierAlpha(g *Group, factor float64, targets []*Light) {
	for _, r := range f {
		r.ChangeMultiplierAlpha(g, factor, targets)
	}
}

func (f Fanout) Flash(g *Group, c color.Color, targets []*Light) {
	for _, r := range f {
		r.Flash(g, c, targets)
	}
}

func (f Fanout) Fade(g *Group, c color.Color, targets []*Light) {
	for _, r := range f {
		r.Fade(g, c, targets)
	}
}

func (f Fanout) SetValue(g *Group, value int) {
	for _, r := range f {
		r.SetValue(g, value)
	}
}

func (f Fanout) Boost(g *Group, red, blue color.Color) {
	for _, r := range f {
		r.Boost(g, red, blue)
	}
}

// NopRenderer discards every primitive.
type NopRenderer struct{}

func (NopRenderer) ChangeColor(*Group, color.Color, float64, []*Light) {}
func (NopRenderer) ChangeAlpha(*Group, float64, float64, []*Light)     {}
func (NopRenderer) ChangeMultiplierAlpha(*Group, float64, []*Light)    {}
func (NopRenderer) Flash(*Group, color.Color, []*Light)                {}
func (NopRenderer) Fade(*Group, color.Color, []*Light)                 {}
func (NopRenderer) SetValue(*Group, int)                               {}
func (NopRenderer) Boost(*Group, color.Color, color.Color)             {}
