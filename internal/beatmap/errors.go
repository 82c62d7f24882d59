package beatmap

import "errors"

var (
	// ErrInvalidBeatmap is returned when the document cannot be decoded.
	ErrInvalidBeatmap = errors.New("beatmap: invalid document")

	// ErrInvalidEvent is returned for an event missing a required field.
	ErrInvalidEvent = errors.New("beatmap: invalid event")
)
