package service

import (
	"github.com/okian/reviewlens/internal/adapters/notify"
	"github.com/okian/reviewlens/internal/adapters/repository"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore uses an existing store instead of creating one.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSeed sets the collection a newly created store starts with.
func WithSeed(seed []review.Review) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithNotifier sets where replacement outcomes are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithFeed exposes recent notifications through Notifications.
// The feed should also be one of the notifier's sinks.
func WithFeed(f *notify.Feed) Option {
	return func(s *Service) {
		s.feed = f
	}
}

// WithPageSize sets the recent list page size.
func WithPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.views.PageSize = n
		}
	}
}

// WithTopLocations sets the number of named locations.
func WithTopLocations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.views.TopLocations = n
		}
	}
}

// WithTopWords sets the default size of the word table.
func WithTopWords(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.views.TopWords = n
		}
	}
}

// WithQueueSize sets the maximum number of pending upload jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of upload workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithUploadDedupe drops identical reviews from uploads, tracking up to size fingerprints.
func WithUploadDedupe(enabled bool, size int) Option {
	return func(s *Service) {
		s.dedupeUploads = enabled
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithDashboardCache toggles memoizing views per store version.
func WithDashboardCache(enabled bool) Option {
	return func(s *Service) {
		s.cacheViews = enabled
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
