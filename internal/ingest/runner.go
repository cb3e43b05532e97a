package ingest

import (
	"context"
	"errors"
	"log"
	"time"

	"querybot/internal/metrics"
	"querybot/internal/models"
	"querybot/internal/queue"
)

// Runner pops jobs one at a time and feeds them to the pipeline. A failed
// job is logged and dropped.
type Runner struct {
	queue    queue.Dequeuer
	pipeline *Pipeline
	metrics  *metrics.Metrics
	logger   *log.Logger
	backoff  time.Duration
}

func NewRunner(q queue.Dequeuer, p *Pipeline, m *metrics.Metrics, logger *log.Logger) *Runner {
	if logger == nil {
		logger = p.logger
	}
	return &Runner{queue: q, pipeline: p, metrics: m, logger: logger, backoff: time.Second}
}

// Run blocks until ctx is cancelled. A job already popped when ctx is
// cancelled is not started.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Printf("waiting for jobs")
	for {
		if ctx.Err() != nil {
			return nil
		}
		job, ok, err := r.queue.Dequeue(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, queue.ErrMalformedJob):
			r.logger.Printf("dropping job: %v", err)
			r.metrics.Job("malformed")
			continue
		case err != nil:
			r.logger.Printf("dequeue failed: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(r.backoff):
			}
			continue
		case !ok:
			continue
		}
		r.handle(ctx, job)
	}
}

func (r *Runner) handle(ctx context.Context, job models.IngestJob) {
	start := time.Now()
	r.logger.Printf("job %s: processing %s/%s", jobRef(job), job.Bucket, job.FileName)
	res, err := r.pipeline.Process(ctx, job)
	if err != nil {
		r.logger.Printf("job %s: failed %s after %s: %v", jobRef(job), job.FileName, time.Since(start).Round(time.Millisecond), err)
		r.metrics.Job("failed")
		return
	}
	r.logger.Printf("job %s: indexed %s pages=%d chunks=%d in %s", jobRef(job), job.FileName, res.Pages, res.Chunks, time.Since(start).Round(time.Millisecond))
	r.metrics.Job("ok")
}
