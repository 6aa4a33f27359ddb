// Package worker applies queued upload jobs to the review store.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/okian/reviewlens/internal/adapters/mq/queue"
	"github.com/okian/reviewlens/internal/domain/review"
	"github.com/okian/reviewlens/pkg/logger"
	"github.com/okian/reviewlens/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Store is the part of the review store a worker writes to.
type Store interface {
	Replace(ctx context.Context, candidate []review.Review) (uint64, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Result is the outcome of one job.
type Result struct {
	JobID    string
	Version  uint64
	Count    int
	Err      error
	Duration time.Duration
}

// Reporter receives job outcomes.
type Reporter interface {
	Report(ctx context.Context, r Result)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(ctx context.Context, r Result)

// Report calls f(ctx, r).
func (f ReporterFunc) Report(ctx context.Context, r Result) { f(ctx, r) }

// Worker processes jobs until its queue is drained or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is closed.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for upload jobs.
type InMemoryWorker struct {
	queue    Queue
	store    Store
	reporter Reporter
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, store Store, reporter Reporter, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		store:    store,
		reporter: reporter,
		name:     "upload-worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	if w.reporter == nil {
		w.reporter = ReporterFunc(func(context.Context, Result) {})
	}
	return w
}

func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job arrives by value from the channel
	start := time.Now()
	version, err := w.store.Replace(ctx, j.Reviews)
	res := Result{
		JobID:    j.ID,
		Version:  version,
		Count:    len(j.Reviews),
		Err:      err,
		Duration: time.Since(start),
	}
	metrics.RecordWorkerProcessingLatency(float64(res.Duration.Microseconds()) / 1000)

	if err != nil {
		metrics.RecordWorkerJob("failed")
		metrics.RecordErrorByComponent("worker", "replace_error")
		w.logger.Error(ctx, "upload job failed",
			logger.String("job_id", j.ID),
			logger.Int("reviews", len(j.Reviews)),
			logger.Error(err),
		)
	} else {
		metrics.RecordWorkerJob("applied")
		w.logger.Debug(ctx, "upload job applied",
			logger.String("job_id", j.ID),
			logger.Uint64("version", res.Version),
			logger.Duration("queued", start.Sub(j.SubmittedAt)),
		)
	}
	w.reporter.Report(ctx, res)
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers; fewer than one means one.
func NewPool(workerCount int, q Queue, store Store, reporter Reporter) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("upload-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, store, reporter, WithName("upload-worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	return nil
}
