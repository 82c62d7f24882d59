package worker

import (
	"time"

	"github.com/okian/lightshow/pkg/logger"
)

// Option applies a configuration option to the Player.
type Option func(*Player)

// WithName sets the player name for identification and logging.
func WithName(name string) Option {
	return func(p *Player) {
		if name != "" {
			p.name = name
		}
	}
}

// WithLogger sets a custom logger for the player.
func WithLogger(l logger.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithFrameRate sets how many frames run per second. Rates past one frame
// per nanosecond are clamped to it.
func WithFrameRate(fps int) Option {
	return func(p *Player) {
		if fps > 0 {
			p.frame = max(time.Second/time.Duration(fps), time.Nanosecond)
		}
	}
}

// WithJournal records every dispatched event.
func WithJournal(j Journal) Option {
	return func(p *Player) { p.journal = j }
}
