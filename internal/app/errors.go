package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrBackpressure  = errors.New("upload queue is full")
	ErrUploadUnknown = errors.New("upload not found")
)
