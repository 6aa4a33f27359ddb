package scraper

import (
	"time"

	"github.com/okian/reviewlens/internal/domain/dedupe"
	"github.com/okian/reviewlens/pkg/logger"
)

// Option applies a configuration option to the Scraper.
type Option func(*Scraper)

// WithDelay sets the pause between page requests.
func WithDelay(d time.Duration) Option {
	return func(s *Scraper) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithMaxPages stops after n pages; 0 means no limit.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		if n >= 0 {
			s.maxPages = n
		}
	}
}

// WithDeduper sets the deduper used to drop repeated reviews. It is shared by
// every Scrape call, so a review seen once is dropped from later scrapes.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Scraper) {
		if d != nil {
			s.deduper = d
		}
	}
}

// WithLogger sets a custom logger for the scraper.
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) {
		if l != nil {
			s.logger = l
		}
	}
}
