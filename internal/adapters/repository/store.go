// Package repository keeps the rendered state of every light.
package repository

import (
	"context"
	"time"

	"github.com/okian/lightshow/internal/domain/color"
)

// LightState is the last rendered state of one light.
type LightState struct {
	Group      string
	Type       int
	Index      int
	Inverted   bool
	Color      color.Color
	Alpha      float64
	Multiplier float64
	Effect     string
	Value      int
	UpdatedAt  time.Time
}

// Output is the color a fixture should show: the light's color with its
// alpha scaled by the group multiplier and the color's own alpha.
func (s LightState) Output() color.Color { //nolint:gocritic // hugeParam: value receiver keeps snapshots immutable
	return s.Color.WithAlpha(s.Color.A * s.Alpha * s.Multiplier)
}

// Snapshot is an immutable view of every light.
type Snapshot struct {
	Groups map[string][]LightState
	Red    color.Color // active red of the palette pair
	Blue   color.Color
	Taken  time.Time
}

// Listener receives the lights touched by one primitive.
type Listener interface {
	OnChange(states []LightState)
}

// Store provides read access to light state.
type Store interface {
	// Lights returns the state of every light in group.
	// Returns ErrNotFound if the group is unknown.
	Lights(ctx context.Context, group string) ([]LightState, error)

	// Snapshot returns the last published snapshot.
	Snapshot(ctx context.Context) Snapshot

	// Count returns the number of tracked lights.
	Count(ctx context.Context) int
}
