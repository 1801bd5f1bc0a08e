package pipeline

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

// Orchestrator consolidates several countries concurrently.
type Orchestrator struct {
	cfg   Config
	makeW func(cfg Config) *Worker
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(engine *consolidation.Engine, cfg Config, sink Sink) *Orchestrator {
	return &Orchestrator{
		cfg: cfg,
		makeW: func(cfg Config) *Worker {
			return NewWorker(engine, cfg, sink)
		},
	}
}

// Run processes every job with at most cfg.WorkerCount in flight. A failing
// country never cancels the others; the returned error joins every failure
// and the summary is always complete.
func (o *Orchestrator) Run(ctx context.Context, jobs []CountryJob) (*RunSummary, error) {
	summary := &RunSummary{
		StartedAt: time.Now(),
		Jobs:      make([]JobReport, len(jobs)),
	}
	for i, job := range jobs {
		summary.Jobs[i] = JobReport{Job: job, Country: job.Country, Status: JobStatusQueued}
	}

	workers := o.cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	worker := o.makeW(o.cfg)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			// each goroutine owns its own slot
			summary.Jobs[i] = worker.Process(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, report := range summary.Jobs {
		switch report.Status {
		case JobStatusCompleted:
			summary.Completed++
		default:
			summary.Failed++
			errs = append(errs, report.Err)
		}
	}
	summary.CompletedAt = time.Now()

	switch {
	case summary.Failed == 0:
		summary.Status = StatusCompleted
	case summary.Completed == 0:
		summary.Status = StatusFailed
	default:
		summary.Status = StatusPartial
	}
	return summary, errors.Join(errs...)
}
