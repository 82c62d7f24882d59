package lighting

import "github.com/okian/lightshow/internal/domain/color"

// Override is the per-group layer that replaces tier colors: a stored
// solid color and at most one gradient task.
type Override struct {
	solid    *color.Color
	gradient *GradientTask
}

// Solid returns the stored color, if any.
func (o *Override) Solid() (color.Color, bool) {
	if o.solid == nil {
		return color.Color{}, false
	}
	return *o.solid, true
}

func (o *Override) setSolid(c color.Color) { o.solid = &c }

func (o *Override) clearSolid() { o.solid = nil }

// dropGradient cancels and detaches the gradient. It reports whether a
// running task was stopped.
func (o *Override) dropGradient() bool {
	if o.gradient == nil {
		return false
	}
	stopped := o.gradient.Cancel()
	o.gradient = nil
	return stopped
}
