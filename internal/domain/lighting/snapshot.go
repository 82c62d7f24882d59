package lighting

import "github.com/okian/lightshow/internal/domain/color"

// GroupSnapshot is a read-only copy of one group's resolver state.
type GroupSnapshot struct {
	Name      string
	Type      int
	Lights    int
	Props     int
	LastValue int
	Solid     *color.Color
	Gradient  *GradientSnapshot
}

// GradientSnapshot describes an attached gradient.
type GradientSnapshot struct {
	State    TaskState
	Start    float64
	Duration float64
	Easing   string
	From     color.Color
	To       color.Color
}

// Snapshot is the engine state exposed to observers.
type Snapshot struct {
	Modifiers Modifiers
	Emulation Emulation
	Palette   Palette
	Groups    []GroupSnapshot
}

// Snapshot copies the current state. It must be called from the goroutine
// that owns the engine.
func (e *Engine) Snapshot() Snapshot {
	s := Snapshot{Modifiers: e.mods, Emulation: e.flags, Palette: e.palette}
	for _, g := range e.Groups() {
		gs := GroupSnapshot{
			Name:      g.Name,
			Type:      g.Type,
			Lights:    len(g.Lights),
			Props:     len(g.props),
			LastValue: g.lastValue,
		}
		if c, ok := g.override.Solid(); ok {
			gs.Solid = &c
		}
		if t := g.override.gradient; t != nil {
			gs.Gradient = &GradientSnapshot{
				State:    t.State(),
				Start:    t.Start(),
				Duration: t.Duration(),
				Easing:   t.Easing(),
				From:     t.From(),
				To:       t.To(),
			}
		}
		s.Groups = append(s.Groups, gs)
	}
	return s
}
