package reviewgen

import (
	"os"

	"github.com/okian/reviewlens/internal/domain/ingest"
	"github.com/okian/reviewlens/internal/domain/review"
)

func decodePayload(raw []byte) ([]review.Review, error) {
	return ingest.Load(raw)
}

// ShowHelp prints usage information for the review generator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Review Generator
================

Generates a synthetic review collection, uploads it to a running dashboard
service and checks the service summary against a locally computed one.

Usage:
  review-gen [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -reviews int
        Number of reviews to generate (default 500)
  -months int
        Spread review dates over this many months (default 12)
  -seed uint
        Random seed; 0 picks one from the clock
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated payload to this file
  -async
        Upload through /uploads and wait for the worker
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  review-gen -reviews 2000 -months 24
  review-gen -async -output reviews.json
`)
}
