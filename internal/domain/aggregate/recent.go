package aggregate

import (
	"slices"

	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
)

// DefaultPageSize is the number of reviews per page of the recent list.
const DefaultPageSize = 5

// SortRecent returns a copy of reviews ordered by Date, newest first.
// Unparseable dates sort after every valid one; equal dates keep input order.
func SortRecent(reviews []review.Review) []review.Review {
	type keyed struct {
		r     review.Review
		unix  int64
		valid bool
	}
	ks := make([]keyed, len(reviews))
	for i, r := range reviews {
		t, ok := ParseDate(r.Date)
		ks[i] = keyed{r: r, valid: ok}
		if ok {
			ks[i].unix = t.UnixNano()
		}
	}

	slices.SortStableFunc(ks, func(a, b keyed) int {
		switch {
		case a.valid != b.valid:
			if a.valid {
				return -1
			}
			return 1
		case a.unix > b.unix:
			return -1
		case a.unix < b.unix:
			return 1
		default:
			return 0
		}
	})

	out := make([]review.Review, len(ks))
	for i, k := range ks {
		out[i] = k.r
	}
	return out
}

// Paginate slices an already sorted list. Out-of-range pages are clamped to
// the first or last page; an empty list yields page 0 with no items.
func Paginate(sorted []review.Review, page, pageSize int) types.RecentPage {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(sorted)
	totalPages := (total + pageSize - 1) / pageSize

	p := types.RecentPage{
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
		Items:      []review.Review{},
	}
	if totalPages == 0 {
		return p
	}

	p.Page = min(max(page, 1), totalPages)
	start := (p.Page - 1) * pageSize
	end := min(start+pageSize, total)
	p.Items = review.Clone(sorted[start:end])
	return p
}

// RecentPage sorts reviews and returns the requested page.
func RecentPage(reviews []review.Review, page, pageSize int) types.RecentPage {
	return Paginate(SortRecent(reviews), page, pageSize)
}
