package aggregate

import (
	"strconv"

	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
)

// RatingHistogram counts reviews per star, 1 through 5. Out-of-range and
// fractional ratings are skipped but still count towards the percentage
// denominator.
func RatingHistogram(reviews []review.Review) []types.RatingBucket {
	var counts [review.MaxRating + 1]int
	for _, r := range reviews {
		if r.InRange() {
			counts[r.Stars()]++
		}
	}

	total := len(reviews)
	out := make([]types.RatingBucket, 0, review.MaxRating)
	for n := review.MinRating; n <= review.MaxRating; n++ {
		b := types.RatingBucket{
			Rating: n,
			Label:  strconv.Itoa(n) + " Star",
			Count:  counts[n],
		}
		if total > 0 {
			b.Percentage = float64(counts[n]) / float64(total) * 100
		}
		out = append(out, b)
	}
	return out
}
