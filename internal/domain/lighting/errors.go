package lighting

import "errors"

var (
	ErrDuplicateGroupType = errors.New("two groups share an event type")
	ErrInvalidGroupType   = errors.New("group event type must be non-negative")
	ErrInvalidPalette     = errors.New("invalid palette")
)
