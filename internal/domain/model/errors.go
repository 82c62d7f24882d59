package model

import "errors"

var (
	ErrInvalidEvent      = errors.New("invalid event")
	ErrInvalidCustomData = errors.New("invalid custom data")
	ErrInvalidColor      = errors.New("invalid custom color")
	ErrInvalidGradient   = errors.New("invalid light gradient")
	ErrUnknownEasing     = errors.New("unknown easing")
)
