package queue

import "errors"

var (
	ErrFull   = errors.New("event queue full")
	ErrClosed = errors.New("event queue closed")
)
