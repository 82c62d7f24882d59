package journal

import "errors"

var (
	// ErrInvalidRange is returned when a query's upper bound is below its lower bound.
	ErrInvalidRange = errors.New("journal: invalid beat range")

	// ErrCorruptEntry is returned when a stored row cannot be decoded.
	ErrCorruptEntry = errors.New("journal: corrupt entry")
)
