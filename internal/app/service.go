// Package service composes the review store, the upload pipeline and the
// aggregations into the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/reviewlens/internal/adapters/mq/queue"
	"github.com/okian/reviewlens/internal/adapters/mq/worker"
	"github.com/okian/reviewlens/internal/adapters/notify"
	"github.com/okian/reviewlens/internal/adapters/repository"
	"github.com/okian/reviewlens/internal/domain/aggregate"
	"github.com/okian/reviewlens/internal/domain/dedupe"
	"github.com/okian/reviewlens/internal/domain/ingest"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/internal/domain/types"
	"github.com/okian/reviewlens/pkg/logger"
	"github.com/okian/reviewlens/pkg/metrics"
)

const (
	defaultQueueSize   = 64
	defaultDedupeSize  = 50_000
	maxTrackedUploads  = 1024
	uploadFailureTitle = "Upload failed"
)

// cachedViews pairs computed views with the store version they were built from.
type cachedViews struct {
	version uint64
	views   *aggregate.Views
}

// Service implements the API dependencies for the review dashboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	queue    *queue.InMemoryQueue
	pool     *worker.Pool
	notifier notify.Notifier
	feed     *notify.Feed
	uploads  *uploadTracker

	// Configuration
	seed          []review.Review
	views         aggregate.Options
	queueSize     int
	workerCount   int
	dedupeUploads bool
	dedupeSize    int
	cacheViews    bool

	cache atomic.Pointer[cachedViews]

	started bool
	logger  logger.Logger
}

// New constructs a Service. Read operations and synchronous uploads work
// immediately; asynchronous uploads need Start.
func New(opts ...Option) *Service {
	s := &Service{
		notifier:    notify.Nop(),
		views:       aggregate.DefaultOptions(),
		queueSize:   defaultQueueSize,
		workerCount: 1,
		dedupeSize:  defaultDedupeSize,
		cacheViews:  true,
		uploads:     newUploadTracker(maxTrackedUploads),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		s.store = repository.NewStore(s.seed, repository.WithNotifier(s.notifier))
	}
	return s
}

// Start creates the upload queue and starts the worker pool. Workers keep
// ctx values but not its cancellation; they run until Stop drains the queue.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, worker.ReporterFunc(s.report))
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "review service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("dedupeUploads", s.dedupeUploads),
		logger.Bool("cacheDashboard", s.cacheViews),
		logger.Int("reviews", s.store.Count(ctx)),
	)
	return nil
}

// Stop closes the upload queue and waits for queued jobs to be applied.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping review service...")
	err := s.pool.Shutdown(ctx)
	s.started = false
	s.logger.Info(ctx, "review service stopped")
	return err
}

// Upload parses, validates and applies raw synchronously.
func (s *Service) Upload(ctx context.Context, raw []byte) (types.UploadResult, error) {
	reviews, dropped, err := s.decode(ctx, raw)
	if err != nil {
		return types.UploadResult{}, err
	}
	version, err := s.store.Replace(ctx, reviews)
	if err != nil {
		metrics.RecordUpload("failed")
		return types.UploadResult{}, err
	}
	metrics.RecordUpload("applied")
	return types.UploadResult{Count: len(reviews), Version: version, Dropped: dropped}, nil
}

// Submit validates raw synchronously and queues it for a worker to apply.
func (s *Service) Submit(ctx context.Context, raw []byte) (types.UploadStatus, error) {
	s.mu.RLock()
	q := s.queue
	s.mu.RUnlock()
	if q == nil {
		return types.UploadStatus{}, ErrNotStarted
	}

	reviews, dropped, err := s.decode(ctx, raw)
	if err != nil {
		return types.UploadStatus{}, err
	}

	status := types.UploadStatus{
		ID:          uuid.NewString(),
		Status:      types.UploadPending,
		Count:       len(reviews),
		Dropped:     dropped,
		SubmittedAt: time.Now().UTC(),
	}
	s.uploads.put(status)

	job := queue.Job{ID: status.ID, Reviews: reviews, SubmittedAt: status.SubmittedAt}
	if err := q.Enqueue(ctx, job); err != nil {
		s.uploads.remove(status.ID)
		metrics.RecordUpload("rejected")
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			return types.UploadStatus{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return types.UploadStatus{}, err
	}
	metrics.RecordUpload("accepted")
	return status, nil
}

// UploadStatus returns the state of an asynchronous upload.
func (s *Service) UploadStatus(_ context.Context, id string) (types.UploadStatus, error) {
	st, ok := s.uploads.get(id)
	if !ok {
		return types.UploadStatus{}, fmt.Errorf("%w: %s", ErrUploadUnknown, id)
	}
	return st, nil
}

// decode runs the boundary pipeline and reports boundary failures.
func (s *Service) decode(ctx context.Context, raw []byte) ([]review.Review, int, error) {
	reviews, err := ingest.Load(raw)
	if err != nil {
		result := "failed"
		switch {
		case errors.Is(err, review.ErrParse):
			result = "parse_error"
		case errors.Is(err, review.ErrValidation):
			result = "validation_error"
		}
		metrics.RecordUpload(result)
		s.notifier.Notify(ctx, notify.Failure(uploadFailureTitle, err.Error()))
		s.logger.Debug(ctx, "upload rejected", logger.String("reason", result), logger.Error(err))
		return nil, 0, err
	}

	dropped := 0
	if s.dedupeUploads {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
		reviews, dropped = dedupe.Unique(ctx, d, reviews)
	}
	return reviews, dropped, nil
}

func (s *Service) report(_ context.Context, r worker.Result) {
	s.uploads.complete(r)
}

// viewsFor returns the views of the current snapshot, memoized per version.
func (s *Service) viewsFor(ctx context.Context) (*aggregate.Views, uint64) {
	snap := s.store.Snapshot(ctx)
	if s.cacheViews {
		if c := s.cache.Load(); c != nil && c.version == snap.Version {
			metrics.RecordDashboardCacheHit()
			return c.views, snap.Version
		}
		metrics.RecordDashboardCacheMiss()
	}

	start := time.Now()
	v := aggregate.Build(snap.Reviews, s.views)
	metrics.RecordAggregationLatency("dashboard", float64(time.Since(start).Microseconds())/1000)

	if s.cacheViews {
		s.cache.Store(&cachedViews{version: snap.Version, views: v})
	}
	return v, snap.Version
}

// Dashboard returns every view plus one page of recent reviews.
func (s *Service) Dashboard(ctx context.Context, page int) types.Dashboard {
	v, version := s.viewsFor(ctx)
	return v.Dashboard(version, page)
}

// Summary returns the headline numbers.
func (s *Service) Summary(ctx context.Context) types.Summary {
	v, _ := s.viewsFor(ctx)
	return v.Summary
}

// Ratings returns the rating histogram.
func (s *Service) Ratings(ctx context.Context) []types.RatingBucket {
	v, _ := s.viewsFor(ctx)
	return v.Ratings
}

// Locations returns the location ranking.
func (s *Service) Locations(ctx context.Context) types.LocationRanking {
	v, _ := s.viewsFor(ctx)
	return v.Locations
}

// Trend returns the monthly rating trend.
func (s *Service) Trend(ctx context.Context) []types.TrendPoint {
	v, _ := s.viewsFor(ctx)
	return v.Trend
}

// Words returns up to limit entries of the word table. limit <= 0 uses the configured size.
func (s *Service) Words(ctx context.Context, limit int) []types.WordCount {
	if limit <= 0 {
		limit = s.views.TopWords
	}
	if limit > s.views.TopWords {
		start := time.Now()
		words := aggregate.WordFrequency(s.store.Snapshot(ctx).Reviews, limit)
		metrics.RecordAggregationLatency("words", float64(time.Since(start).Microseconds())/1000)
		return words
	}
	v, _ := s.viewsFor(ctx)
	// The table is ranked, so a shorter limit is a prefix with the same weights.
	return v.Words[:min(limit, len(v.Words))]
}

// Recent returns one page of reviews, newest first.
func (s *Service) Recent(ctx context.Context, page int) types.RecentPage {
	v, _ := s.viewsFor(ctx)
	return v.Recent(page)
}

// Reviews returns a copy of the current collection.
func (s *Service) Reviews(ctx context.Context) []review.Review {
	return s.store.Collection(ctx)
}

// Notifications returns recent notifications, newest first.
func (s *Service) Notifications(_ context.Context, limit int) []notify.Notification {
	if s.feed == nil {
		return []notify.Notification{}
	}
	return s.feed.Recent(limit)
}

// Busy reports whether a replacement is in progress.
func (s *Service) Busy() bool {
	return s.store.Busy()
}

// Version returns the store version.
func (s *Service) Version() uint64 {
	return s.store.Version()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.store.Snapshot(ctx)
	stats := map[string]any{
		"started":        s.started,
		"busy":           s.store.Busy(),
		"version":        snap.Version,
		"reviews":        len(snap.Reviews),
		"replacedAt":     snap.ReplacedAt.UTC().Format(time.RFC3339),
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"dedupeUploads":  s.dedupeUploads,
		"cacheDashboard": s.cacheViews,
		"trackedUploads": s.uploads.len(),
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
	}
	return stats
}
