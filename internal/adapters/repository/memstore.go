package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/reviewlens/internal/adapters/notify"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/pkg/metrics"
)

// MemoryStore keeps the collection behind an atomic snapshot pointer.
// Readers never lock; replacements are serialized by mu.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[Snapshot]
	busy     atomic.Bool
	notifier notify.Notifier
	now      func() time.Time
}

// NewStore creates a store holding seed. A nil seed means the built-in collection.
func NewStore(seed []review.Review, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		notifier: notify.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if seed == nil {
		seed = review.Seed()
	}
	s.snapshot.Store(&Snapshot{Reviews: review.Clone(seed), ReplacedAt: s.now()})

	metrics.UpdateStoreReviews(len(seed))
	metrics.UpdateStoreVersion(0)
	metrics.UpdateStoreBusy(false)
	return s
}

func (s *MemoryStore) Collection(_ context.Context) []review.Review {
	return review.Clone(s.snapshot.Load().Reviews)
}

func (s *MemoryStore) Snapshot(_ context.Context) *Snapshot {
	return s.snapshot.Load()
}

func (s *MemoryStore) Busy() bool {
	return s.busy.Load()
}

func (s *MemoryStore) Version() uint64 {
	return s.snapshot.Load().Version
}

func (s *MemoryStore) Count(_ context.Context) int {
	return len(s.snapshot.Load().Reviews)
}

// Replace swaps in candidate and returns the new version. The busy flag is
// held for the whole call and released on every return path.
func (s *MemoryStore) Replace(ctx context.Context, candidate []review.Review) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy.Store(true)
	metrics.UpdateStoreBusy(true)
	defer func() {
		s.busy.Store(false)
		metrics.UpdateStoreBusy(false)
	}()

	start := time.Now()
	if err := s.check(ctx, candidate); err != nil {
		metrics.RecordStoreReplaceError()
		s.notifier.Notify(ctx, notify.Failure("Upload failed", err.Error()))
		return 0, err
	}

	prev := s.snapshot.Load()
	next := &Snapshot{
		Reviews:    review.Clone(candidate),
		Version:    prev.Version + 1,
		ReplacedAt: s.now(),
	}
	s.snapshot.Store(next)

	metrics.RecordStoreReplaceLatency(float64(time.Since(start).Microseconds()) / 1000)
	metrics.UpdateStoreReviews(len(next.Reviews))
	metrics.UpdateStoreVersion(next.Version)

	s.notifier.Notify(ctx, notify.Success("Upload successful",
		fmt.Sprintf("Loaded %d reviews", len(next.Reviews))))
	return next.Version, nil
}

func (s *MemoryStore) check(ctx context.Context, candidate []review.Review) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	if len(candidate) == 0 {
		return review.EmptyError()
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
