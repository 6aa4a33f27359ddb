package aggregate

import (
	"math"

	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
)

// Summarize computes total, mean rating and share of positive reviews.
// All values are zero for an empty collection.
func Summarize(reviews []review.Review) types.Summary {
	total := len(reviews)
	if total == 0 {
		return types.Summary{}
	}

	sum, positive := 0.0, 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Positive() {
			positive++
		}
	}

	avg := sum / float64(total)
	return types.Summary{
		TotalCount:         total,
		AverageRating:      avg,
		PositivePercentage: float64(positive) / float64(total) * 100,
		RoundedStars:       stars(avg),
	}
}

func stars(avg float64) int {
	n := math.Round(avg)
	switch {
	case n < 0:
		return 0
	case n > review.MaxRating:
		return review.MaxRating
	default:
		return int(n)
	}
}
