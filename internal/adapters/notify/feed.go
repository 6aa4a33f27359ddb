package notify

import (
	"context"
	"sync"

	"github.com/okian/reviewlens/pkg/metrics"
)

const defaultFeedSize = 50

// Feed keeps the most recent notifications in a ring buffer.
type Feed struct {
	mu    sync.RWMutex
	items []Notification
	next  int
	full  bool
}

// NewFeed creates a feed holding up to size notifications.
func NewFeed(size int) *Feed {
	if size < 1 {
		size = defaultFeedSize
	}
	return &Feed{items: make([]Notification, size)}
}

func (f *Feed) Notify(_ context.Context, n Notification) {
	f.mu.Lock()
	f.items[f.next] = n
	f.next = (f.next + 1) % len(f.items)
	if f.next == 0 {
		f.full = true
	}
	f.mu.Unlock()
	metrics.RecordNotification(string(n.Level), "feed")
}

// Recent returns up to limit notifications, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	count := f.next
	if f.full {
		count = len(f.items)
	}
	if limit <= 0 || limit > count {
		limit = count
	}
	out := make([]Notification, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (f.next - i + len(f.items)) % len(f.items)
		out = append(out, f.items[idx])
	}
	return out
}
