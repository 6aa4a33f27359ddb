package scraper

import "errors"

// Sentinel kinds for scraper errors.
var (
	ErrFetch    = errors.New("fetch page failed")
	ErrDecode   = errors.New("decode page failed")
	ErrNoReview = errors.New("no reviews scraped")
)
