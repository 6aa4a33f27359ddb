// Package dedupe tracks review fingerprints so identical reviews are kept once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"

	"github.com/okian/reviewlens/internal/domain/review"
)

const defaultMaxSize = 50_000

// Deduper records seen review fingerprints.
type Deduper interface {
	// SeenAndRecord atomically checks if fp was seen and records it if not.
	// Returns true if fp was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, fp uint64) bool

	// Unrecord forgets fp so the same review can be accepted again.
	Unrecord(ctx context.Context, fp uint64)

	// Reset forgets everything.
	Reset(ctx context.Context)

	Size() int64
}

// inMemoryDeduper keeps fingerprints in a map plus an insertion-ordered list.
// Bounded mode (maxSize > 0) evicts the oldest fingerprint first.
// Unbounded mode (maxSize <= 0) never evicts.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[uint64]*list.Element
	order   *list.List
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[uint64]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, fp uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[fp]; exists {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		d.evictOldest()
	}
	d.seen[fp] = d.order.PushBack(fp)
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, fp uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if el, exists := d.seen[fp]; exists {
		d.order.Remove(el)
		delete(d.seen, fp)
		d.size.Add(-1)
	}
}

func (d *inMemoryDeduper) Reset(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen = make(map[uint64]*list.Element)
	d.order.Init()
	d.size.Store(0)
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	front := d.order.Front()
	if front == nil {
		return
	}
	fp, _ := front.Value.(uint64)
	d.order.Remove(front)
	delete(d.seen, fp)
	d.size.Add(-1)
}

// Size returns the current number of entries in the deduper.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// Unique returns reviews with exact duplicates removed, first occurrence kept,
// and the number of dropped reviews.
func Unique(ctx context.Context, d Deduper, reviews []review.Review) ([]review.Review, int) {
	out := make([]review.Review, 0, len(reviews))
	for _, r := range reviews {
		if d.SeenAndRecord(ctx, r.Fingerprint()) {
			continue
		}
		out = append(out, r)
	}
	return out, len(reviews) - len(out)
}
