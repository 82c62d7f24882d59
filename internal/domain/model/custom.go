package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/okian/lightshow/internal/domain/color"
	"github.com/okian/lightshow/internal/domain/easing"
)

// Custom data keys.
const (
	KeyNameFilter    = "_nameFilter"
	KeyLightID       = "_lightID"
	KeyPropID        = "_propID"
	KeyColor         = "_color"
	KeyLightGradient = "_lightGradient"
	KeyStartColor    = "_startColor"
	KeyEndColor      = "_endColor"
	KeyDuration      = "_duration"
	KeyEasing        = "_easing"
)

// CustomData is the typed view of an event's custom data. Absent keys are nil.
type CustomData struct {
	NameFilter *string
	LightID    *int
	PropID     *int
	Color      *color.Color
	Gradient   *Gradient

	// Raw keeps the decoded map so unknown keys survive a round trip.
	Raw map[string]any
}

// Gradient describes a timed color interpolation.
type Gradient struct {
	Start    color.Color
	End      color.Color
	Duration float64 // beats, > 0
	Easing   string
}

// DecodeCustomData builds a CustomData from a generic map, as produced by
// encoding/json. A nil map yields nil. Each key decodes on its own: a
// malformed key is left out of the result and Raw, and its error is joined
// into the returned error while the valid keys are kept. Nothing left means
// a nil result.
func DecodeCustomData(raw map[string]any) (*CustomData, error) {
	if raw == nil {
		return nil, nil
	}
	cd := &CustomData{Raw: make(map[string]any, len(raw))}
	for k, v := range raw {
		cd.Raw[k] = v
	}

	var errs []error
	reject := func(key string, err error) {
		delete(cd.Raw, key)
		errs = append(errs, err)
	}

	if v, ok := raw[KeyNameFilter]; ok {
		if s, ok := v.(string); ok {
			cd.NameFilter = &s
		} else {
			reject(KeyNameFilter, fmt.Errorf("%w: %s must be a string", ErrInvalidCustomData, KeyNameFilter))
		}
	}
	if v, ok := raw[KeyLightID]; ok {
		if n, err := toInt(v); err == nil {
			cd.LightID = &n
		} else {
			reject(KeyLightID, fmt.Errorf("%w: %s: %v", ErrInvalidCustomData, KeyLightID, err))
		}
	}
	if v, ok := raw[KeyPropID]; ok {
		if n, err := toInt(v); err == nil {
			cd.PropID = &n
		} else {
			reject(KeyPropID, fmt.Errorf("%w: %s: %v", ErrInvalidCustomData, KeyPropID, err))
		}
	}
	if v, ok := raw[KeyColor]; ok {
		if c, err := toColor(v); err == nil {
			cd.Color = &c
		} else {
			reject(KeyColor, err)
		}
	}
	if v, ok := raw[KeyLightGradient]; ok {
		if g, err := toGradient(v); err == nil {
			cd.Gradient = g
		} else {
			reject(KeyLightGradient, err)
		}
	}
	if len(errs) > 0 && len(cd.Raw) == 0 {
		return nil, errors.Join(errs...)
	}
	return cd, errors.Join(errs...)
}

// Map returns the wire form of the custom data, merged over Raw.
func (c *CustomData) Map() map[string]any {
	if c == nil {
		return nil
	}
	out := make(map[string]any, len(c.Raw)+5)
	for k, v := range c.Raw {
		out[k] = v
	}
	if c.NameFilter != nil {
		out[KeyNameFilter] = *c.NameFilter
	}
	if c.LightID != nil {
		out[KeyLightID] = *c.LightID
	}
	if c.PropID != nil {
		out[KeyPropID] = *c.PropID
	}
	if c.Color != nil {
		out[KeyColor] = c.Color.Components()
	}
	if g := c.Gradient; g != nil {
		out[KeyLightGradient] = map[string]any{
			KeyStartColor: g.Start.Components(),
			KeyEndColor:   g.End.Components(),
			KeyDuration:   g.Duration,
			KeyEasing:     g.Easing,
		}
	}
	return out
}

func toGradient(v any) (*Gradient, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object", ErrInvalidGradient, KeyLightGradient)
	}

	startRaw, ok := m[KeyStartColor]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidGradient, KeyStartColor)
	}
	endRaw, ok := m[KeyEndColor]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidGradient, KeyEndColor)
	}
	start, err := toColor(startRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidGradient, KeyStartColor, err)
	}
	end, err := toColor(endRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidGradient, KeyEndColor, err)
	}

	durRaw, ok := m[KeyDuration]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidGradient, KeyDuration)
	}
	dur, err := toFloat(durRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidGradient, KeyDuration, err)
	}
	if dur <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidGradient, KeyDuration, dur)
	}

	name := easing.Default
	if e, ok := m[KeyEasing]; ok {
		s, ok := e.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidGradient, KeyEasing)
		}
		if _, known := easing.Lookup(s); !known {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEasing, s)
		}
		name = s
	}

	return &Gradient{Start: start, End: end, Duration: dur, Easing: name}, nil
}

func toColor(v any) (color.Color, error) {
	switch t := v.(type) {
	case string:
		c, err := color.ParseHex(t)
		if err != nil {
			return color.Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
		}
		return c, nil
	case []float64:
		return componentsToColor(t)
	case []any:
		comps := make([]float64, 0, len(t))
		for _, x := range t {
			f, err := toFloat(x)
			if err != nil {
				return color.Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
			}
			comps = append(comps, f)
		}
		return componentsToColor(comps)
	default:
		return color.Color{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidColor, v)
	}
}

func componentsToColor(comps []float64) (color.Color, error) {
	c, err := color.FromComponents(comps)
	if err != nil {
		return color.Color{}, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return c, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}
	return int(f), nil
}
