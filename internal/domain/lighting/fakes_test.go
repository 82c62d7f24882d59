package lighting_test

import (
	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/domain/model"
)

type call struct {
	Op      string
	Group   string
	Color   color.Color
	Red     color.Color
	Value   float64
	Speed   float64
	Code    int
	Targets []int
}

// recorder captures every primitive the engine issues.
type recorder struct {
	calls []call
}

func indices(ls []*lighting.Light) []int {
	out := make([]int, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Index)
	}
	return out
}

func (r *recorder) ChangeColor(g *lighting.Group, c color.Color, speed float64, ts []*lighting.Light) {
	r.calls = append(r.calls, call{Op: "color", Group: g.Name, Color: c, Speed: speed, Targets: indices(ts)})
}

func (r *recorder) ChangeAlpha(g *lighting.Group, a, speed float64, ts []*lighting.Light) {
	r.calls = append(r.calls, call{Op: "alpha", Group: g.Name, Value: a, Speed: speed, Targets: indices(ts)})
}

func (r *recorder) ChangeMultiplierAlpha(g *lighting.Group, f float64, ts []*lighting.Light) {
	r.calls = append(r.calls, call{Op: "multiplier", Group: g.Name, Value: f, Targets: indices(ts)})
}

func (r *recorder) Flash(g *lighting.Group, c color.Color, ts []*lighting.Light) {
	r.calls = append(r.calls, call{Op: "flash", Group: g.Name, Color: c, Targets: indices(ts)})
}

func (r *recorder) Fade(g *lighting.Group, c color.Color, ts []*lighting.Light) {
	r.calls = append(r.calls, call{Op: "fade", Group: g.Name, Color: c, Targets: indices(ts)})
}

func (r *recorder) SetValue(g *lighting.Group, v int) {
	r.calls = append(r.calls, call{Op: "value", Group: g.Name, Code: v})
}

func (r *recorder) Boost(g *lighting.Group, red, blue color.Color) {
	r.calls = append(r.calls, call{Op: "boost", Group: g.Name, Red: red, Color: blue})
}

func (r *recorder) reset() { r.calls = nil }

func (r *recorder) ops(op string) []call {
	var out []call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// touched lists the light indices that received a visible primitive.
func (r *recorder) touched() map[int]bool {
	out := map[int]bool{}
	for _, c := range r.calls {
		switch c.Op {
		case "color", "alpha", "flash", "fade", "multiplier":
			for _, i := range c.Targets {
				out[i] = true
			}
		}
	}
	return out
}

// colorFor returns the color last sent to light idx by op.
func (r *recorder) colorFor(op string, idx int) (color.Color, bool) {
	var (
		found bool
		last  color.Color
	)
	for _, c := range r.calls {
		if c.Op != op {
			continue
		}
		for _, i := range c.Targets {
			if i == idx {
				last, found = c.Color, true
			}
		}
	}
	return last, found
}

type fakeClock struct{ beat float64 }

func (c *fakeClock) CurrentBeat() float64 { return c.beat }

type fakeRing struct {
	rotations []*model.CustomData
	positions int
}

func (f *fakeRing) HandleRotationEvent(cd *model.CustomData) { f.rotations = append(f.rotations, cd) }
func (f *fakeRing) HandlePositionEvent()                     { f.positions++ }

type offset struct {
	Value     int
	Angle     int
	Clockwise bool
}

type fakeLaser struct{ offsets []offset }

func (f *fakeLaser) UpdateOffset(value, angle int, clockwise bool, _ *model.CustomData) {
	f.offsets = append(f.offsets, offset{value, angle, clockwise})
}

// ringGroup has five lights; index 4 is inverted; props are 0,0,1,1,2.
func ringGroup() *lighting.Group {
	props := []int{0, 0, 1, 1, 2}
	lights := make([]*lighting.Light, 0, len(props))
	for i, p := range props {
		lights = append(lights, &lighting.Light{Inverted: i == 4, Prop: p})
	}
	return lighting.NewGroup("ring", model.TypeRingLights, lights)
}

func ptr[T any](v T) *T { return &v }

func gradientEvent(typ int, at, dur float64, from, to color.Color, ease string) model.Event {
	return model.Event{
		Type:  typ,
		Value: model.ValueBlueOn,
		Time:  at,
		Custom: &model.CustomData{Gradient: &model.Gradient{
			Start: from, End: to, Duration: dur, Easing: ease,
		}},
	}
}
