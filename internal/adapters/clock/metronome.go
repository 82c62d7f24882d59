// Package clock provides beat clocks for the lighting engine.
package clock

import (
	"sync"
	"time"
)

const defaultBPM = 120.0

// Metronome derives the current beat from wall time at a fixed tempo.
// It is safe for concurrent use.
type Metronome struct {
	mu      sync.RWMutex
	bpm     float64
	now     func() time.Time
	origin  time.Time // wall time corresponding to beat 0 of the current run
	base    float64   // beat reached when the clock was last paused or seeked
	running bool
}

// NewMetronome creates a stopped metronome at beat 0.
func NewMetronome(opts ...Option) *Metronome {
	m := &Metronome{bpm: defaultBPM, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start resets the clock to beat 0 and runs it.
func (m *Metronome) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = 0
	m.origin = m.now()
	m.running = true
}

// Pause freezes the beat. Pausing a stopped clock is a no-op.
func (m *Metronome) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.base = m.beatLocked()
	m.running = false
}

// Resume continues from the paused beat.
func (m *Metronome) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.origin = m.now()
	m.running = true
}

// Running reports whether the clock advances.
func (m *Metronome) Running() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// BPM returns the tempo.
func (m *Metronome) BPM() float64 { return m.bpm }

// CurrentBeat implements lighting.Clock.
func (m *Metronome) CurrentBeat() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.beatLocked()
}

func (m *Metronome) beatLocked() float64 {
	if !m.running {
		return m.base
	}
	return m.base + m.now().Sub(m.origin).Minutes()*m.bpm
}
