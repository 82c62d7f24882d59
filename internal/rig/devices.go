package rig

import (
	"math"
	"sync"

	"github.com/okian/lightshow/internal/domain/model"
)

// Laser tracks the spin of one rotating laser.
type Laser struct {
	Group string
	Index int

	mu        sync.RWMutex
	speed     int
	angle     int
	clockwise bool
}

// LaserState is a copy of a laser's spin.
type LaserState struct {
	Group     string `json:"group"`
	Index     int    `json:"index"`
	Speed     int    `json:"speed"`
	Angle     int    `json:"angle"`
	Clockwise bool   `json:"clockwise"`
}

// UpdateOffset implements lighting.RotatingLight. A zero speed stops the
// laser at its rest angle.
func (l *Laser) UpdateOffset(value, angle int, clockwise bool, _ *model.CustomData) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.speed = value
	if value == 0 {
		l.angle = 0
		return
	}
	l.angle = angle
	l.clockwise = clockwise
}

// State returns the current spin.
func (l *Laser) State() LaserState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LaserState{Group: l.Group, Index: l.Index, Speed: l.speed, Angle: l.angle, Clockwise: l.clockwise}
}

// Ring tracks a ring system's rotation and zoom.
type Ring struct {
	Name string
	step float64

	mu        sync.RWMutex
	rotation  float64
	rotations int
	zoomed    bool
}

// RingState is a copy of a ring's position.
type RingState struct {
	Name      string  `json:"name"`
	Rotation  float64 `json:"rotation"`
	Rotations int     `json:"rotations"`
	Zoomed    bool    `json:"zoomed"`
}

// NewRing creates a ring that turns step degrees per rotation event.
func NewRing(name string, step float64) *Ring {
	return &Ring{Name: name, step: step}
}

// HandleRotationEvent implements lighting.RingHandler. Rotation alternates
// direction on every event.
func (r *Ring) HandleRotationEvent(_ *model.CustomData) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dir := 1.0
	if r.rotations%2 == 1 {
		dir = -1
	}
	r.rotation = math.Mod(r.rotation+dir*r.step+360, 360)
	r.rotations++
}

// HandlePositionEvent implements lighting.RingHandler by toggling zoom.
func (r *Ring) HandlePositionEvent() {
	r.mu.Lock()
	r.zoomed = !r.zoomed
	r.mu.Unlock()
}

// State returns the current position.
func (r *Ring) State() RingState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return RingState{Name: r.Name, Rotation: r.rotation, Rotations: r.rotations, Zoomed: r.zoomed}
}
