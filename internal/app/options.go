package service

import (
	"github.com/gdamore/tcell/v2"

	"github.com/okian/lightshow/internal/config"
	"github.com/okian/lightshow/internal/domain/lighting"
	"github.com/okian/lightshow/internal/rig"
	"github.com/okian/lightshow/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration the service is wired from.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces the metronome, e.g. with a manual clock in tests.
func WithClock(c lighting.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithRigLayout uses l instead of the configured or built-in rig.
func WithRigLayout(l rig.Layout) Option {
	return func(s *Service) {
		s.layout = &l
	}
}

// WithScreen sets the terminal used by the preview.
func WithScreen(screen tcell.Screen) Option {
	return func(s *Service) {
		s.screen = screen
	}
}
