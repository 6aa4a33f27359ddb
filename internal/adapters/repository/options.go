package repository

import (
	"time"

	"github.com/okian/reviewlens/internal/adapters/notify"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithNotifier reports every replacement outcome to n.
func WithNotifier(n notify.Notifier) Option {
	return func(s *MemoryStore) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithClock overrides the time source used for ReplacedAt.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}
