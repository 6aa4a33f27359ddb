package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrCanceled = errors.New("replace canceled")
)
