package scraper

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/okian/reviewlens/internal/domain/review"
)

const dateLayout = "2006-01-02"

// nextData is the part of a review page's __NEXT_DATA__ document we read.
type nextData struct {
	Props struct {
		PageProps struct {
			Reviews []pageReview `json:"reviews"`
		} `json:"pageProps"`
	} `json:"props"`
}

type pageReview struct {
	Dates struct {
		PublishedDate string `json:"publishedDate"`
	} `json:"dates"`
	Consumer struct {
		DisplayName string `json:"displayName"`
		CountryCode string `json:"countryCode"`
	} `json:"consumer"`
	Text   string  `json:"text"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
}

// ParsePage extracts the reviews of one page from its __NEXT_DATA__ JSON.
// A page without a reviews list yields no reviews and no error.
func ParsePage(raw []byte) ([]review.Review, error) {
	var doc nextData
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	out := make([]review.Review, 0, len(doc.Props.PageProps.Reviews))
	for _, r := range doc.Props.PageProps.Reviews {
		out = append(out, review.Review{
			Date:     publishedDay(r.Dates.PublishedDate),
			Author:   r.Consumer.DisplayName,
			Body:     r.Text,
			Heading:  r.Title,
			Rating:   r.Rating,
			Location: r.Consumer.CountryCode,
		})
	}
	return out, nil
}

// publishedDay reduces a timestamp to its calendar day in UTC.
func publishedDay(s string) string {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format(dateLayout)
	}
	if len(s) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, s[:len(dateLayout)]); err == nil {
			return t.Format(dateLayout)
		}
	}
	return strings.TrimSpace(s)
}
