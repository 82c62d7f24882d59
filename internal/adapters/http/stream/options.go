package stream

import (
	"time"

	"github.com/okian/lightshow/pkg/logger"
)

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.log = l
		}
	}
}

// WithSendBuffer sets how many frames a client may lag behind before
// frames are dropped for it.
func WithSendBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.sendBuffer = n
		}
	}
}

// WithPingInterval sets the keepalive ping period and the pong deadline.
func WithPingInterval(interval, pongWait time.Duration) Option {
	return func(h *Hub) {
		if interval > 0 {
			h.pingInterval = interval
		}
		if pongWait > 0 {
			h.pongWait = pongWait
		}
	}
}
