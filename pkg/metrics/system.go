package metrics

import (
	"context"
	"runtime"
	"time"
)

const defaultSystemInterval = 5 * time.Second

// StartSystemCollector samples runtime statistics every interval until ctx is done.
func StartSystemCollector(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultSystemInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	CollectSystem()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CollectSystem()
		}
	}
}

// CollectSystem records memory, goroutine and GC pause metrics once.
func CollectSystem() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	UpdateSystemMemoryUsage(m.Alloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / float64(time.Millisecond)
		RecordSystemGCPauseTime(avgPauseMs)
	}
}
