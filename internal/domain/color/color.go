// Package color provides the RGBA value the lighting engine pushes to lights.
//
// Channels are kept as unclamped floats so that interpolation overshoot from
// easing curves survives until a renderer decides how to display it.
package color

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB triple with a separate alpha channel.
type Color struct {
	colorful.Color
	A float64
}

var (
	// White is the fallback when an event value maps to no palette entry.
	White = RGBA(1, 1, 1, 1)
	// Black is opaque black.
	Black = RGBA(0, 0, 0, 1)
	// TransparentBlack is what soloed-out groups are given.
	TransparentBlack = RGBA(0, 0, 0, 0)
)

// RGBA builds a color from float channels.
func RGBA(r, g, b, a float64) Color {
	return Color{Color: colorful.Color{R: r, G: g, B: b}, A: a}
}

// WithAlpha returns a copy of c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Lerp interpolates every channel between a and b without clamping t.
func Lerp(a, b Color, t float64) Color {
	return Color{
		Color: a.Color.BlendRgb(b.Color, t),
		A:     a.A + (b.A-a.A)*t,
	}
}

// RGBA255 returns clamped 8-bit channels.
func (c Color) RGBA255() (r, g, b, a uint8) {
	r, g, b = c.Clamped().RGB255()
	return r, g, b, uint8(clamp01(c.A)*255.0 + 0.5)
}

// Hex renders c as #rrggbbaa.
func (c Color) Hex() string {
	r, g, b, a := c.RGBA255()
	return fmt.Sprintf("#%02x%02x%02x%02x", r, g, b, a)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("rgba(%.3f, %.3f, %.3f, %.3f)", c.R, c.G, c.B, c.A)
}

// ParseHex accepts #rgb, #rrggbb and #rrggbbaa.
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}

	alpha := 1.0
	if len(s) == 9 {
		v, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
		alpha = float64(v) / 255.0
		s = s[:7]
	}

	base, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return Color{Color: base, A: alpha}, nil
}

// FromComponents builds a color from a 3 or 4 element slice; alpha defaults to 1.
func FromComponents(v []float64) (Color, error) {
	switch len(v) {
	case 3:
		return RGBA(v[0], v[1], v[2], 1), nil
	case 4:
		return RGBA(v[0], v[1], v[2], v[3]), nil
	default:
		return Color{}, fmt.Errorf("%w: got %d components", ErrInvalidComponents, len(v))
	}
}

// Components returns [r, g, b, a].
func (c Color) Components() []float64 {
	return []float64{c.R, c.G, c.B, c.A}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
