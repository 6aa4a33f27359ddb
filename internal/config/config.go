// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a dotenv file, an optional YAML file and REVIEWLENS_* env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
)

const (
	defaultMaxUploadBytes = 10 << 20
	defaultPageSize       = 5
	defaultTopLocations   = 5
	defaultTopWords       = 30
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PageSize is the number of reviews per page of the recent list.
	PageSize int `koanf:"page_size"`

	// TopLocations is the number of named locations before the Others bucket.
	TopLocations int `koanf:"top_locations"`

	// TopWords caps the word frequency table.
	TopWords int `koanf:"top_words"`

	// UploadQueueSize bounds the asynchronous upload queue.
	UploadQueueSize int `koanf:"upload_queue_size"`

	// UploadWorkers sets the number of upload workers.
	UploadWorkers int `koanf:"upload_workers"`

	// MaxUploadBytes caps request bodies of upload endpoints.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// DedupeUploads drops identical reviews from uploaded payloads.
	DedupeUploads bool `koanf:"dedupe_uploads"`

	// DedupeSize bounds the fingerprint set used for upload dedupe.
	DedupeSize int `koanf:"dedupe_size"`

	// NotificationFeedSize is the number of recent notifications kept for GET /notifications.
	NotificationFeedSize int `koanf:"notification_feed_size"`

	// CORSOrigins lists allowed origins for the dashboard API.
	CORSOrigins []string `koanf:"cors_origins"`

	// NATSURL enables notification publishing when non-empty.
	NATSURL string `koanf:"nats_url"`

	// NATSSubject is the subject notifications are published on.
	NATSSubject string `koanf:"nats_subject"`

	// CacheDashboard memoizes the dashboard per store version.
	CacheDashboard bool `koanf:"cache_dashboard"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":9080",
		PageSize:             defaultPageSize,
		TopLocations:         defaultTopLocations,
		TopWords:             defaultTopWords,
		UploadQueueSize:      64,
		UploadWorkers:        1,
		MaxUploadBytes:       defaultMaxUploadBytes,
		DedupeUploads:        false,
		DedupeSize:           50_000,
		NotificationFeedSize: 50,
		CORSOrigins:          []string{"*"},
		NATSSubject:          "reviewlens.notifications",
		CacheDashboard:       true,
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PageSize < 1:
		return fmt.Errorf("%w: page_size must be >= 1, got %d", ErrInvalidConfig, c.PageSize)
	case c.TopLocations < 1:
		return fmt.Errorf("%w: top_locations must be >= 1, got %d", ErrInvalidConfig, c.TopLocations)
	case c.TopWords < 1:
		return fmt.Errorf("%w: top_words must be >= 1, got %d", ErrInvalidConfig, c.TopWords)
	case c.UploadQueueSize < 1:
		return fmt.Errorf("%w: upload_queue_size must be >= 1, got %d", ErrInvalidConfig, c.UploadQueueSize)
	case c.UploadWorkers < 1:
		return fmt.Errorf("%w: upload_workers must be >= 1, got %d", ErrInvalidConfig, c.UploadWorkers)
	case c.MaxUploadBytes < 1:
		return fmt.Errorf("%w: max_upload_bytes must be >= 1, got %d", ErrInvalidConfig, c.MaxUploadBytes)
	case c.DedupeUploads && c.DedupeSize < 1:
		return fmt.Errorf("%w: dedupe_size must be >= 1 when dedupe_uploads is set", ErrInvalidConfig)
	}
	return nil
}
