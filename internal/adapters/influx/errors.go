package influx

import "errors"

var (
	// ErrConnectionFailed is returned when the server cannot be reached.
	ErrConnectionFailed = errors.New("influx: connection failed")

	// ErrNotConnected is returned after Close.
	ErrNotConnected = errors.New("influx: client not connected")
)
