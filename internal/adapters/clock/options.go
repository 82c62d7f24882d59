package clock

import "time"

// Option configures a Metronome.
type Option func(*Metronome)

// WithBPM sets the tempo. Non-positive values are ignored.
func WithBPM(bpm float64) Option {
	return func(m *Metronome) {
		if bpm > 0 {
			m.bpm = bpm
		}
	}
}

// WithNowFunc replaces the wall clock source.
func WithNowFunc(now func() time.Time) Option {
	return func(m *Metronome) {
		if now != nil {
			m.now = now
		}
	}
}
