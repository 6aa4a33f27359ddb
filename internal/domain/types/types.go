// Package types contains the read models shared by the app and HTTP layers.
package types

import (
	"time"

	"github.com/okian/reviewlens/internal/domain/review"
)

// OthersLabel names the synthetic location bucket holding everything past the top N.
const OthersLabel = "Others"

// Summary holds the headline numbers of the dashboard.
type Summary struct {
	TotalCount         int     `json:"totalCount"`
	AverageRating      float64 `json:"averageRating"`
	PositivePercentage float64 `json:"positivePercentage"`
	RoundedStars       int     `json:"roundedStars"`
}

// RatingBucket is one bar of the rating histogram.
type RatingBucket struct {
	Rating     int     `json:"rating"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// LocationEntry is one slice of the location ranking.
type LocationEntry struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Label   string  `json:"label"`
	Others  bool    `json:"others,omitempty"`
}

// LocationRanking is the ranked location distribution plus the total for the center label.
type LocationRanking struct {
	Total   int             `json:"total"`
	Entries []LocationEntry `json:"entries"`
}

// TrendPoint is the average rating of one calendar month.
type TrendPoint struct {
	Month         string  `json:"month"`
	AverageRating float64 `json:"averageRating"`
	Count         int     `json:"count"`
}

// WordCount is one entry of the word frequency table.
type WordCount struct {
	Token  string  `json:"token"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight"`
}

// RecentPage is one page of the recent reviews list. Page is 0 only when
// the collection is empty.
type RecentPage struct {
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
	Total      int             `json:"total"`
	Items      []review.Review `json:"items"`
}

// Dashboard bundles every view computed from one collection version.
type Dashboard struct {
	Version   uint64          `json:"version"`
	Summary   Summary         `json:"summary"`
	Ratings   []RatingBucket  `json:"ratings"`
	Locations LocationRanking `json:"locations"`
	Trend     []TrendPoint    `json:"trend"`
	Words     []WordCount     `json:"words"`
	Recent    RecentPage      `json:"recent"`
}

// Upload job states.
const (
	UploadPending = "pending"
	UploadApplied = "applied"
	UploadFailed  = "failed"
)

// UploadResult is the response of a synchronous upload.
type UploadResult struct {
	Count   int    `json:"count"`
	Version uint64 `json:"version"`
	Dropped int    `json:"dropped,omitempty"`
}

// UploadStatus tracks one asynchronous upload.
type UploadStatus struct {
	ID          string     `json:"id"`
	Status      string     `json:"status"`
	Count       int        `json:"count"`
	Dropped     int        `json:"dropped,omitempty"`
	Version     uint64     `json:"version,omitempty"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
