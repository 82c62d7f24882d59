package repository

import "time"

// Option applies a configuration option to the StateStore.
type Option func(*StateStore)

// WithSnapshotInterval sets how often snapshots are published.
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *StateStore) {
		if interval > 0 {
			s.snapshotInterval = interval
		}
	}
}

// WithListener forwards every light change to l.
func WithListener(l Listener) Option {
	return func(s *StateStore) {
		if l != nil {
			s.listeners = append(s.listeners, l)
		}
	}
}

// WithNowFunc replaces the time source used for UpdatedAt.
func WithNowFunc(now func() time.Time) Option {
	return func(s *StateStore) {
		if now != nil {
			s.now = now
		}
	}
}
