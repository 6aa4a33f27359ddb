package review

import (
	"errors"
	"fmt"
)

// Sentinel kinds for boundary errors. Use errors.Is against these.
var (
	ErrParse      = errors.New("parse error")
	ErrValidation = errors.New("validation error")
)

// ParseError reports a payload that is not well-formed JSON.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("parse error at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrParse) hold for every ParseError.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ValidationError reports a well-formed payload with the wrong shape.
// Index is -1 when the problem concerns the payload as a whole.
type ValidationError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Index < 0:
		return "validation error: " + e.Reason
	case e.Field != "":
		return fmt.Sprintf("validation error: review %d: field %q %s", e.Index, e.Field, e.Reason)
	default:
		return fmt.Sprintf("validation error: review %d: %s", e.Index, e.Reason)
	}
}

// Is makes errors.Is(err, ErrValidation) hold for every ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// EmptyError returns the error for a payload with no reviews.
func EmptyError() *ValidationError {
	return &ValidationError{Index: -1, Reason: "payload must be a non-empty array of reviews"}
}
