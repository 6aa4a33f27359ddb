package scraper

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/okian/reviewlens/internal/domain/review"
)

var textSeparator = strings.Repeat("-", 80)

// WriteJSON writes reviews as an upload payload, indented four spaces
// with non-ASCII and HTML characters kept literal.
func WriteJSON(w io.Writer, reviews []review.Review) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(review.Clone(reviews)); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteText writes one labelled block per review.
func WriteText(w io.Writer, reviews []review.Review) error {
	for _, r := range reviews {
		_, err := fmt.Fprintf(w, "Date: %s\nAuthor: %s\nLocation: %s\nRating: %s\nHeading: %s\nBody: %s\n%s\n\n",
			r.Date, r.Author, r.Location, strconv.FormatFloat(r.Rating, 'f', -1, 64), r.Heading, r.Body, textSeparator)
		if err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return nil
}
