package reviewgen

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/reviewlens/internal/domain/types"
)

const ratingTolerance = 1e-9

// Sentinel kinds for generator errors.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrMismatch         = errors.New("summary mismatch")
	ErrUploadFailed     = errors.New("upload failed")
)

// Verify compares the service summary with the locally computed one.
func Verify(want, got types.Summary) error {
	var errs []error
	if got.TotalCount != want.TotalCount {
		errs = append(errs, fmt.Errorf("%w: totalCount got %d, want %d", ErrMismatch, got.TotalCount, want.TotalCount))
	}
	if math.Abs(got.AverageRating-want.AverageRating) > ratingTolerance {
		errs = append(errs, fmt.Errorf("%w: averageRating got %v, want %v", ErrMismatch, got.AverageRating, want.AverageRating))
	}
	if math.Abs(got.PositivePercentage-want.PositivePercentage) > ratingTolerance {
		errs = append(errs, fmt.Errorf("%w: positivePercentage got %v, want %v", ErrMismatch, got.PositivePercentage, want.PositivePercentage))
	}
	return errors.Join(errs...)
}
