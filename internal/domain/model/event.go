// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
)

// Event types understood by the engine.
const (
	TypeBackLasers      = 0
	TypeRingLights      = 1
	TypeLeftLasers      = 2
	TypeRightLasers     = 3
	TypeCenterLights    = 4
	TypeBoost           = 5
	TypeRingRotation    = 8
	TypeRingZoom        = 9
	TypeLeftLaserSpeed  = 12
	TypeRightLaserSpeed = 13
)

// Lighting event values.
const (
	ValueOff       = 0
	ValueBlueOn    = 1
	ValueBlueFlash = 2
	ValueBlueFade  = 3
	ValueRedOn     = 5
	ValueRedFlash  = 6
	ValueRedFade   = 7
)

// Event is a single timed beatmap event.
type Event struct {
	ID     string      // optional, used for idempotency on the live API
	Type   int         // event type, selects the light group or a special handler
	Value  int         // effect code or packed legacy color
	Time   float64     // beat position
	Custom *CustomData // nil when the event carries no custom data
}

// IsLighting reports whether the event type addresses a light group rather
// than a special handler.
func (e Event) IsLighting() bool {
	switch e.Type {
	case TypeBoost, TypeRingRotation, TypeRingZoom, TypeLeftLaserSpeed, TypeRightLaserSpeed:
		return false
	}
	return e.Type >= 0
}

// HasGradient reports whether the event carries a gradient description.
func (e Event) HasGradient() bool {
	return e.Custom != nil && e.Custom.Gradient != nil
}

// Validate checks the fields every consumer relies on.
func (e Event) Validate() error {
	if math.IsNaN(e.Time) || math.IsInf(e.Time, 0) {
		return fmt.Errorf("%w: time %v", ErrInvalidEvent, e.Time)
	}
	if e.Type < 0 {
		return fmt.Errorf("%w: type %d", ErrInvalidEvent, e.Type)
	}
	return nil
}

// ValueName returns a readable name for lighting values.
func ValueName(v int) string {
	switch v {
	case ValueOff:
		return "off"
	case ValueBlueOn:
		return "blue_on"
	case ValueBlueFlash:
		return "blue_flash"
	case ValueBlueFade:
		return "blue_fade"
	case ValueRedOn:
		return "red_on"
	case ValueRedFlash:
		return "red_flash"
	case ValueRedFade:
		return "red_fade"
	default:
		return "other"
	}
}
