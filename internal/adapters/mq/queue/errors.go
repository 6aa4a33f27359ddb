package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull   = errors.New("upload queue full")
	ErrClosed = errors.New("upload queue closed")
)
