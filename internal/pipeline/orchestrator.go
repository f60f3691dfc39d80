package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/tgschema/internal/assemble"
	"github.com/dgallion1/tgschema/internal/config"
	"github.com/dgallion1/tgschema/internal/schema"
)

var (
	// ErrQueueFull is returned by Submit when no queue slot is free.
	ErrQueueFull = errors.New("build queue is full")
	// ErrStopped is returned by Submit after Stop.
	ErrStopped = errors.New("build pipeline stopped")
)

// Orchestrator runs schema builds on a bounded worker pool.
type Orchestrator struct {
	jobs   *JobStore
	queue  chan *Job
	worker *Worker
	stats  *BuildStats
	log    *slog.Logger
	cfg    config.Config

	mu      sync.RWMutex
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch workers.
func NewOrchestrator(cfg config.Config, fetcher Fetcher, log *slog.Logger) *Orchestrator {
	stats := NewBuildStats(time.Hour)
	builder := assemble.New(assemble.Options{LinkBase: cfg.LinkBaseURL})
	return &Orchestrator{
		jobs:   NewJobStore(cfg.JobTTL),
		queue:  make(chan *Job, cfg.MaxQueueSize),
		worker: NewWorker(fetcher, builder, stats, log),
		stats:  stats,
		log:    log,
		cfg:    cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.mu.Unlock()

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job := <-o.queue:
					_ = o.worker.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop shuts down the pipeline and waits for workers. The queue is left open;
// later Submit calls fail with ErrStopped.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	o.stopped = true
	cancel := o.cancel
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.wg.Wait()
}

// Submit queues a new build.
func (o *Orchestrator) Submit(in Input) (*Job, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	job := NewJob(in)
	if o.stopped {
		job.Fail("stopped", ErrStopped)
		return job, ErrStopped
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.log.Info("build queued", "job_id", job.ID, "source", job.Source)
		return job, nil
	default:
		job.Fail("queue_full", fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize))
		return job, ErrQueueFull
	}
}

// Run performs a build synchronously on the caller's goroutine. The job is
// not kept in the store.
func (o *Orchestrator) Run(ctx context.Context, in Input) (*schema.Schema, *Job, error) {
	job := NewJob(in)
	if err := o.worker.Process(ctx, job); err != nil {
		return nil, job, err
	}
	return job.Result(), job, nil
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats returns the rolling build statistics.
func (o *Orchestrator) Stats() *BuildStats {
	return o.stats
}
