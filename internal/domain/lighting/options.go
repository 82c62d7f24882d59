package lighting

import (
	"github.com/okian/lightshow/pkg/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithPalette sets the initial palette.
func WithPalette(p Palette) Option {
	return func(e *Engine) { e.palette = p }
}

// WithEmulation sets which custom data features are honoured.
func WithEmulation(flags Emulation) Option {
	return func(e *Engine) { e.flags = flags }
}

// WithClock sets the beat source.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithRenderer sets the primitive sink. Use Fanout for several.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithRings sets the big and small ring handlers. Either may be nil.
func WithRings(big, small RingHandler) Option {
	return func(e *Engine) {
		e.bigRing = big
		e.smallRing = small
	}
}

// WithCodec replaces the legacy packed color codec.
func WithCodec(c Codec) Option {
	return func(e *Engine) {
		if c != nil {
			e.codec = c
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}
