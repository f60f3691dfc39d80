package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/tgschema/internal/assemble"
	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/schema"
	"github.com/dgallion1/tgschema/internal/segment"
)

// Fetcher retrieves a source document by URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Worker runs schema builds.
type Worker struct {
	fetcher Fetcher
	builder *assemble.Builder
	stats   *BuildStats
	log     *slog.Logger
	backoff BackoffFunc
}

func NewWorker(fetcher Fetcher, builder *assemble.Builder, stats *BuildStats, log *slog.Logger) *Worker {
	return &Worker{
		fetcher: fetcher,
		builder: builder,
		stats:   stats,
		log:     log,
		backoff: Backoff,
	}
}

// Process runs the full build for a job and records the outcome on it.
// The returned error is the one recorded on the job.
func (w *Worker) Process(ctx context.Context, job *Job) error {
	log := w.log.With("job_id", job.ID, "source", job.Source)
	start := time.Now()

	s, phase, err := w.build(ctx, job, log)
	if err != nil {
		log.Error("build failed", "phase", phase, "kind", schema.Kind(err), "error", err)
		job.Fail(phase, err)
		if w.stats != nil {
			w.stats.RecordFailure()
		}
		return err
	}

	job.Complete(s)
	elapsed := time.Since(start)
	if w.stats != nil {
		w.stats.Record(elapsed)
	}
	types, methods := s.Counts()
	log.Info("build complete", "types", types, "methods", methods, "duration_ms", elapsed.Milliseconds())
	return nil
}

// build returns the schema or the phase that failed.
func (w *Worker) build(ctx context.Context, job *Job, log *slog.Logger) (*schema.Schema, string, error) {
	data := job.Data()
	if len(data) == 0 {
		if job.url == "" {
			return nil, "queued", errors.New("job has neither a url nor a document")
		}
		if w.fetcher == nil {
			return nil, "fetching", errors.New("no fetcher configured")
		}

		job.SetStatus(StatusFetching, "fetching")
		fetched, err := retry(ctx, log, w.backoff, func(err error) {
			job.AddError(fmt.Sprintf("fetch: %s", err))
		}, func() ([]byte, error) {
			return w.fetcher.Fetch(ctx, job.url)
		})
		if err != nil {
			return nil, "fetching", fmt.Errorf("fetch %s: %w", job.url, err)
		}
		job.SetData(fetched)
		data = fetched
		log.Info("fetched source", "bytes", len(data))
	} else {
		job.SetData(data)
	}

	job.SetStatus(StatusParsing, "parsing")
	nodes, err := parser.Load(bytes.NewReader(data), job.Format)
	if err != nil {
		return nil, "parsing", err
	}
	log.Debug("loaded document", "nodes", len(nodes))

	job.SetStatus(StatusAssembling, "assembling")
	items, err := segment.Segment(nodes)
	if err != nil {
		return nil, "assembling", err
	}
	job.SetItems(len(items))
	s, err := w.builder.FromItems(items)
	if err != nil {
		return nil, "assembling", err
	}

	job.SetStatus(StatusValidating, "validating")
	if err := schema.Validate(s); err != nil {
		return nil, "validating", err
	}
	return s, "", nil
}
