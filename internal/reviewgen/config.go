// Package reviewgen generates synthetic review collections, uploads them to a
// running dashboard service and checks the service's summary against a
// locally computed one.
package reviewgen

import "time"

// Config holds configuration for a generator run.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumReviews int           // Number of reviews to generate
	Months     int           // Spread dates over this many months back from now
	Seed       uint64        // Random seed; 0 picks one from the clock
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Optional file for the generated payload
	Async      bool          // Upload through /uploads instead of /reviews
	Verbose    bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	Generated int
	Uploaded  int
	Version   uint64
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
