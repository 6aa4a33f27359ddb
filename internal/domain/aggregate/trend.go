package aggregate

import (
	"math"
	"slices"
	"strings"

	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
)

// Trend buckets reviews by calendar month and returns the mean rating of each
// month, oldest first. Reviews with an unparseable Date are left out.
func Trend(reviews []review.Review) []types.TrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, r := range reviews {
		key, ok := MonthKey(r.Date)
		if !ok {
			continue
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.sum += r.Rating
		b.count++
	}

	out := make([]types.TrendPoint, 0, len(buckets))
	for key, b := range buckets {
		out = append(out, types.TrendPoint{
			Month:         key,
			AverageRating: round1(b.sum / float64(b.count)),
			Count:         b.count,
		})
	}
	// "YYYY-MM" compares chronologically as a string.
	slices.SortFunc(out, func(a, b types.TrendPoint) int {
		return strings.Compare(a.Month, b.Month)
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
