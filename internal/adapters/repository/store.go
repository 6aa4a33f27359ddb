// Package repository holds the process-wide review collection.
package repository

import (
	"context"
	"time"

	"github.com/okian/reviewlens/internal/domain/review"
)

// Snapshot is one immutable version of the collection. Reviews must not be modified.
type Snapshot struct {
	Reviews    []review.Review
	Version    uint64
	ReplacedAt time.Time
}

// Store provides read/write access to the review collection.
type Store interface {
	// Collection returns a copy of the current reviews.
	Collection(ctx context.Context) []review.Review

	// Snapshot returns the current version without copying.
	Snapshot(ctx context.Context) *Snapshot

	// Replace swaps in candidate as a whole and returns the version it
	// committed. On error the previous collection stays.
	Replace(ctx context.Context, candidate []review.Review) (uint64, error)

	// Busy reports whether a replacement is in progress.
	Busy() bool

	// Version increments on every successful replacement.
	Version() uint64

	// Count returns the number of reviews in the current collection.
	Count(ctx context.Context) int
}
