// Package scraper collects reviews from paginated review pages and writes
// them in the upload payload format.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/reviewlens/internal/domain/dedupe"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/pkg/logger"
	"github.com/okian/reviewlens/pkg/metrics"
)

const (
	defaultDelay    = 2 * time.Second
	defaultMaxPages = 0
)

// Scraper walks ?page=1.. until a page has no reviews or cannot be read.
type Scraper struct {
	fetcher  Fetcher
	deduper  dedupe.Deduper
	delay    time.Duration
	maxPages int
	logger   logger.Logger
}

// New creates a scraper reading pages through fetcher.
func New(fetcher Fetcher, opts ...Option) *Scraper {
	s := &Scraper{
		fetcher:  fetcher,
		delay:    defaultDelay,
		maxPages: defaultMaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scraper")
	}
	return s
}

// Scrape collects every review reachable from baseURL with exact duplicates
// removed. A failing page ends the walk; reviews gathered so far are kept.
// Each call starts with an empty seen set unless WithDeduper was given.
func (s *Scraper) Scrape(ctx context.Context, baseURL string) ([]review.Review, error) {
	s.logger.Info(ctx, "starting scrape", logger.String("url", baseURL))

	var collected []review.Review
	for page := 1; s.maxPages <= 0 || page <= s.maxPages; page++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scrape canceled at page %d: %w", page, err)
		}

		target, err := pageURL(baseURL, page)
		if err != nil {
			return nil, err
		}
		reviews, err := s.scrapePage(ctx, target)
		if err != nil {
			metrics.RecordScraperPage("error")
			s.logger.Warn(ctx, "page failed, stopping", logger.Int("page", page), logger.Error(err))
			break
		}
		if len(reviews) == 0 {
			metrics.RecordScraperPage("empty")
			s.logger.Info(ctx, "no more reviews", logger.Int("page", page))
			break
		}

		metrics.RecordScraperPage("ok")
		metrics.RecordScraperReviews(len(reviews))
		collected = append(collected, reviews...)
		s.logger.Info(ctx, "page scraped", logger.Int("page", page), logger.Int("reviews", len(reviews)))

		if s.delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("scrape canceled after page %d: %w", page, ctx.Err())
			case <-time.After(s.delay):
			}
		}
	}

	d := s.deduper
	if d == nil {
		d = dedupe.NewInMemoryDeduper()
	}
	unique, dropped := dedupe.Unique(ctx, d, collected)
	if dropped > 0 {
		metrics.RecordScraperDuplicates(dropped)
		s.logger.Info(ctx, "removed duplicate reviews", logger.Int("duplicates", dropped))
	}
	if len(unique) == 0 {
		return unique, ErrNoReview
	}
	s.logger.Info(ctx, "scrape complete", logger.Int("reviews", len(unique)))
	return unique, nil
}

func (s *Scraper) scrapePage(ctx context.Context, target string) ([]review.Review, error) {
	raw, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return ParsePage(raw)
}

// pageURL sets the page query parameter on base.
func pageURL(base string, page int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
