package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/reviewlens/internal/reviewgen"
	"github.com/okian/reviewlens/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumReviews = 500
	defaultMonths     = 12
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numReviews = flag.Int("reviews", defaultNumReviews, "Number of reviews to generate")
		months     = flag.Int("months", defaultMonths, "Spread review dates over this many months")
		seed       = flag.Uint64("seed", 0, "Random seed; 0 picks one from the clock")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Write the generated payload to this file")
		async      = flag.Bool("async", false, "Upload through /uploads and wait for the worker")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		reviewgen.ShowHelp()
		return
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.InitWithOptions(logger.Options{Level: level}); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &reviewgen.Config{
		BaseURL:    *baseURL,
		NumReviews: *numReviews,
		Months:     *months,
		Seed:       *seed,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		Async:      *async,
		Verbose:    *verbose,
	}

	if _, err := reviewgen.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
