// Package review contains the canonical review record and the errors raised
// when an untrusted payload is turned into one.
package review

import (
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Rating bounds. Values outside, and fractional values, are stored but
// skipped by the histogram.
const (
	MinRating = 1
	MaxRating = 5

	// PositiveRating is the lowest rating counted as positive.
	PositiveRating = 4
)

// Field names of the upload payload, case-sensitive.
const (
	FieldAuthor   = "Author"
	FieldBody     = "Body"
	FieldDate     = "Date"
	FieldHeading  = "Heading"
	FieldLocation = "Location"
	FieldRating   = "Rating"
)

// RequiredFields lists the keys every payload element must carry, in payload order.
var RequiredFields = []string{FieldAuthor, FieldBody, FieldDate, FieldHeading, FieldLocation, FieldRating} //nolint:gochecknoglobals // fixed wire contract

// Review is one customer review. Values are treated as immutable once created.
type Review struct {
	Author   string  `json:"Author"`
	Body     string  `json:"Body"`
	Date     string  `json:"Date"`
	Heading  string  `json:"Heading"`
	Location string  `json:"Location"`
	Rating   float64 `json:"Rating"`
}

// InRange reports whether the rating is a whole star from 1 to 5.
func (r Review) InRange() bool {
	return r.Rating >= MinRating && r.Rating <= MaxRating && r.Rating == math.Trunc(r.Rating)
}

// Stars returns the histogram bucket of an in-range rating.
func (r Review) Stars() int {
	return int(r.Rating)
}

// Positive reports whether the review counts towards the positive percentage.
func (r Review) Positive() bool {
	return r.Rating >= PositiveRating
}

// Fingerprint hashes every field; identical reviews share a fingerprint.
func (r Review) Fingerprint() uint64 {
	d := xxhash.New()
	for _, s := range []string{r.Author, r.Body, r.Date, r.Heading, r.Location, strconv.FormatFloat(r.Rating, 'g', -1, 64)} {
		_, _ = d.WriteString(s)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Clone returns a copy of the collection so callers cannot alias stored state.
func Clone(reviews []Review) []Review {
	if reviews == nil {
		return []Review{}
	}
	out := make([]Review, len(reviews))
	copy(out, reviews)
	return out
}
