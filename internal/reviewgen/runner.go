package reviewgen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/reviewlens/internal/adapters/scraper"
	"github.com/okian/reviewlens/internal/domain/aggregate"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
	"github.com/okian/reviewlens/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o600
	pollInterval        = 50 * time.Millisecond
)

// Run generates a collection, uploads it and verifies the service summary.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Get().Named("reviewgen")
	stats := &Stats{StartTime: time.Now()}

	seed := config.Seed
	if seed == 0 {
		seed = uint64(stats.StartTime.UnixNano())
	}
	log.Info(ctx, "starting review generator",
		logger.String("baseURL", config.BaseURL),
		logger.Int("reviews", config.NumReviews),
		logger.Int("months", config.Months),
		logger.Uint64("seed", seed),
		logger.Bool("async", config.Async))

	client := NewClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate reviews
	reviews := NewGenerator(seed, time.Now()).Generate(config.NumReviews, config.Months)
	stats.Generated = len(reviews)

	var payload bytes.Buffer
	if err := scraper.WriteJSON(&payload, reviews); err != nil {
		return stats, err
	}

	// Step 3: Save payload to file
	if config.OutputFile != "" {
		if err := saveToFile(config.OutputFile, payload.Bytes()); err != nil {
			log.Warn(ctx, "failed to save reviews to file", logger.Error(err))
		} else {
			log.Info(ctx, "reviews saved to file", logger.String("filename", config.OutputFile))
		}
	}

	// Step 4: Upload
	version, err := upload(ctx, client, payload.Bytes(), config.Async)
	if err != nil {
		return stats, fmt.Errorf("upload failed: %w", err)
	}
	stats.Uploaded = len(reviews)
	stats.Version = version

	// Step 5: Verify
	got, err := client.Summary(ctx)
	if err != nil {
		return stats, fmt.Errorf("summary retrieval failed: %w", err)
	}
	if err := Verify(aggregate.Summarize(reviews), got); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats, got)
	return stats, nil
}

func upload(ctx context.Context, client *Client, payload []byte, async bool) (uint64, error) {
	if !async {
		res, err := client.Upload(ctx, payload)
		return res.Version, err
	}

	st, err := client.Submit(ctx, payload)
	if err != nil {
		return 0, err
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("waiting for upload %s: %w", st.ID, ctx.Err())
		case <-ticker.C:
		}
		cur, err := client.UploadStatus(ctx, st.ID)
		if err != nil {
			return 0, err
		}
		switch cur.Status {
		case types.UploadApplied:
			return cur.Version, nil
		case types.UploadFailed:
			return 0, fmt.Errorf("%w: %s", ErrUploadFailed, cur.Error)
		}
	}
}

// saveToFile writes payload, creating parent directories.
func saveToFile(filename string, payload []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, payload, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// LoadFile reads a payload file back into reviews.
func LoadFile(filename string) ([]review.Review, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return decodePayload(raw)
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats, s types.Summary) {
	var reviewsPerSecond float64
	if stats.Duration > 0 {
		reviewsPerSecond = float64(stats.Uploaded) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("uploaded", stats.Uploaded),
		logger.Uint64("version", stats.Version),
		logger.Int("totalCount", s.TotalCount),
		logger.Float64("averageRating", s.AverageRating),
		logger.Float64("positivePercentage", s.PositivePercentage),
		logger.Duration("duration", stats.Duration),
		logger.Float64("reviewsPerSecond", reviewsPerSecond))
}
