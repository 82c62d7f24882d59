package color

import "errors"

var (
	// ErrInvalidHex is returned when a hex string cannot be parsed.
	ErrInvalidHex = errors.New("invalid hex color")
	// ErrInvalidComponents is returned when a component slice is not RGB or RGBA.
	ErrInvalidComponents = errors.New("color needs 3 or 4 components")
)
