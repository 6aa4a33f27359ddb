package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/reviewlens/internal/adapters/scraper"
	"github.com/okian/reviewlens/pkg/logger"
)

const (
	defaultURL   = "https://www.trustpilot.com/review/balenciaga.com"
	defaultDelay = 2 * time.Second
)

func main() {
	var (
		target   = flag.String("url", defaultURL, "Review listing to scrape")
		jsonFile = flag.String("out", "balenciaga_reviews.json", "JSON output file, ready for upload")
		textFile = flag.String("txt", "", "Optional plain-text output file")
		maxPages = flag.Int("max-pages", 0, "Stop after this many pages; 0 reads until an empty page")
		delay    = flag.Duration("delay", defaultDelay, "Pause between page loads")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *target, *jsonFile, *textFile, *maxPages, *delay); err != nil {
		logger.Get().Error(ctx, "scrape failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, target, jsonFile, textFile string, maxPages int, delay time.Duration) error {
	log := logger.Get().Named("scrape")

	fetcher := scraper.NewBrowserFetcher(ctx)
	defer fetcher.Close()

	s := scraper.New(fetcher,
		scraper.WithDelay(delay),
		scraper.WithMaxPages(maxPages),
		scraper.WithLogger(log),
	)
	reviews, err := s.Scrape(ctx, target)
	if err != nil {
		return err
	}

	if err := writeFile(jsonFile, func(f *os.File) error { return scraper.WriteJSON(f, reviews) }); err != nil {
		return err
	}
	log.Info(ctx, "reviews written", logger.String("file", jsonFile), logger.Int("count", len(reviews)))

	if textFile != "" {
		if err := writeFile(textFile, func(f *os.File) error { return scraper.WriteText(f, reviews) }); err != nil {
			return err
		}
		log.Info(ctx, "text written", logger.String("file", textFile))
	}
	return nil
}

func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
