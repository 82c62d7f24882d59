package clock

import "sync"

// Manual is a clock moved explicitly by its owner. Replays and tests use it.
type Manual struct {
	mu   sync.RWMutex
	beat float64
}

// NewManual creates a manual clock at beat b.
func NewManual(b float64) *Manual { return &Manual{beat: b} }

// Set moves the clock to beat b.
func (m *Manual) Set(b float64) {
	m.mu.Lock()
	m.beat = b
	m.mu.Unlock()
}

// Advance moves the clock forward by delta beats and returns the new beat.
func (m *Manual) Advance(delta float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beat += delta
	return m.beat
}

// CurrentBeat implements lighting.Clock.
func (m *Manual) CurrentBeat() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.beat
}
