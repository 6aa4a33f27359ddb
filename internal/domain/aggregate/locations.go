package aggregate

import (
	"fmt"
	"slices"

	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
)

// DefaultTopLocations is the number of named locations before the Others bucket.
const DefaultTopLocations = 5

// RankLocations groups reviews by exact Location, ranks groups by count and
// folds everything after the first top groups into one Others entry.
// Ties keep first-seen order.
func RankLocations(reviews []review.Review, top int) types.LocationRanking {
	if top < 1 {
		top = DefaultTopLocations
	}
	total := len(reviews)

	index := make(map[string]int)
	groups := make([]types.LocationEntry, 0)
	for _, r := range reviews {
		i, ok := index[r.Location]
		if !ok {
			i = len(groups)
			index[r.Location] = i
			groups = append(groups, types.LocationEntry{Name: r.Location})
		}
		groups[i].Count++
	}

	slices.SortStableFunc(groups, func(a, b types.LocationEntry) int {
		return b.Count - a.Count
	})

	entries := groups
	if len(groups) > top {
		others := types.LocationEntry{Name: types.OthersLabel, Others: true}
		for _, g := range groups[top:] {
			others.Count += g.Count
		}
		entries = append(groups[:top:top], others)
	}

	for i := range entries {
		entries[i].Percent = percent1(entries[i].Count, total)
		entries[i].Label = fmt.Sprintf("%.1f%%", entries[i].Percent)
	}
	return types.LocationRanking{Total: total, Entries: entries}
}

func percent1(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(count) / float64(total) * 100)
}
