package rig

import "errors"

// ErrInvalidRig is returned when a rig layout cannot be built.
var ErrInvalidRig = errors.New("rig: invalid layout")
