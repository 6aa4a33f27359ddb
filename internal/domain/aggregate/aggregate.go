// Package aggregate derives every dashboard view from a review collection.
//
// All functions are pure: they never mutate their input, never fail and return
// well-formed zero values for an empty collection. They are safe to call
// concurrently against the same snapshot.
package aggregate

import (
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
)

// Options tunes the sized views.
type Options struct {
	PageSize     int
	TopLocations int
	TopWords     int
}

// DefaultOptions returns the reference sizes.
func DefaultOptions() Options {
	return Options{
		PageSize:     DefaultPageSize,
		TopLocations: DefaultTopLocations,
		TopWords:     DefaultTopWords,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.PageSize < 1 {
		o.PageSize = d.PageSize
	}
	if o.TopLocations < 1 {
		o.TopLocations = d.TopLocations
	}
	if o.TopWords < 1 {
		o.TopWords = d.TopWords
	}
	return o
}

// Views holds every view of one collection plus the date-ordered list that
// backs pagination. A Views value is immutable once built.
type Views struct {
	Summary   types.Summary
	Ratings   []types.RatingBucket
	Locations types.LocationRanking
	Trend     []types.TrendPoint
	Words     []types.WordCount

	sorted   []review.Review
	pageSize int
}

// Build computes every view of reviews at once.
func Build(reviews []review.Review, opts Options) *Views {
	opts = opts.normalized()
	return &Views{
		Summary:   Summarize(reviews),
		Ratings:   RatingHistogram(reviews),
		Locations: RankLocations(reviews, opts.TopLocations),
		Trend:     Trend(reviews),
		Words:     WordFrequency(reviews, opts.TopWords),
		sorted:    SortRecent(reviews),
		pageSize:  opts.PageSize,
	}
}

// Recent returns one page of the date-ordered list.
func (v *Views) Recent(page int) types.RecentPage {
	return Paginate(v.sorted, page, v.pageSize)
}

// Dashboard assembles the combined read model for one page of recent reviews.
func (v *Views) Dashboard(version uint64, page int) types.Dashboard {
	return types.Dashboard{
		Version:   version,
		Summary:   v.Summary,
		Ratings:   v.Ratings,
		Locations: v.Locations,
		Trend:     v.Trend,
		Words:     v.Words,
		Recent:    v.Recent(page),
	}
}
