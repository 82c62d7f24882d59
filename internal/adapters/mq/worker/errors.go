package worker

import "errors"

var (
	ErrNotRunning = errors.New("player not running")
	ErrStopped    = errors.New("player stopped")
)
