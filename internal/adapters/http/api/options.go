package api

import (
	"context"

	"github.com/okian/lightshow/pkg/logger"
)

// Option configures the Server.
type Option func(*serverConfig)

type serverConfig struct {
	log    logger.Logger
	checks []HealthCheck
}

// WithLogger sets the logger used by handlers.
func WithLogger(l logger.Logger) Option {
	return func(c *serverConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithHealthCheck adds a named dependency check to /healthz.
func WithHealthCheck(name string, check func(ctx context.Context) error) Option {
	return func(c *serverConfig) {
		if check != nil {
			c.checks = append(c.checks, HealthCheck{Name: name, Check: check})
		}
	}
}
