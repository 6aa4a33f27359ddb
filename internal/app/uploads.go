package service

import (
	"sync"
	"time"

	"github.com/okian/reviewlens/internal/adapters/mq/worker"
	"github.com/okian/reviewlens/internal/domain/types"
)

// uploadTracker remembers the most recent asynchronous uploads.
type uploadTracker struct {
	mu    sync.RWMutex
	byID  map[string]types.UploadStatus
	order []string
	max   int
}

func newUploadTracker(maxEntries int) *uploadTracker {
	return &uploadTracker{byID: make(map[string]types.UploadStatus), max: maxEntries}
}

func (t *uploadTracker) put(st types.UploadStatus) { //nolint:gocritic // hugeParam: stored by value
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byID[st.ID]; !ok {
		t.order = append(t.order, st.ID)
	}
	t.byID[st.ID] = st
	for len(t.order) > t.max {
		delete(t.byID, t.order[0])
		t.order = t.order[1:]
	}
}

func (t *uploadTracker) get(id string) (types.UploadStatus, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.byID[id]
	return st, ok
}

func (t *uploadTracker) remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byID[id]; !ok {
		return
	}
	delete(t.byID, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *uploadTracker) complete(r worker.Result) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st, ok := t.byID[r.JobID]
	if !ok {
		return
	}
	now := time.Now().UTC()
	st.CompletedAt = &now
	if r.Err != nil {
		st.Status = types.UploadFailed
		st.Error = r.Err.Error()
	} else {
		st.Status = types.UploadApplied
		st.Version = r.Version
	}
	t.byID[r.JobID] = st
}

func (t *uploadTracker) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}
