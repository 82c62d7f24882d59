package repository

import "errors"

// ErrNotFound is returned for an unknown group.
var ErrNotFound = errors.New("group not found")
