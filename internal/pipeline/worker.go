package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

// Worker consolidates one country job with retries on stream failures.
type Worker struct {
	engine *consolidation.Engine
	config Config
	sink   Sink
}

// NewWorker creates a new pipeline worker
func NewWorker(engine *consolidation.Engine, config Config, sink Sink) *Worker {
	if config.RetryAttempts < 1 {
		config.RetryAttempts = 1
	}
	return &Worker{engine: engine, config: config, sink: sink}
}

// Process runs the job and fills its report. Only input stream failures are
// retried; schema and lookup errors are final.
func (w *Worker) Process(ctx context.Context, job CountryJob) JobReport {
	report := JobReport{Job: job, Country: job.Country, Status: JobStatusProcessing}
	start := time.Now()

	log.Info().Str("country", job.Country).Str("path", job.Path).Msg("pipeline: processing country")

	var result *consolidation.Result
	var err error
	for attempt := 1; attempt <= w.config.RetryAttempts; attempt++ {
		report.Attempts = attempt
		if err = ctx.Err(); err != nil {
			break
		}

		result, err = w.consolidate(job)
		if err == nil || !errors.Is(err, consolidation.ErrInputParse) {
			break
		}
		if attempt < w.config.RetryAttempts {
			log.Warn().Err(err).Str("country", job.Country).
				Msgf("pipeline: will retry (attempt %d/%d)", attempt, w.config.RetryAttempts)
			if !sleep(ctx, w.config.RetryBackoff) {
				err = ctx.Err()
				break
			}
		}
	}

	if err == nil && w.sink != nil {
		if sinkErr := w.sink(ctx, job, result); sinkErr != nil {
			err = fmt.Errorf("sink: %w", sinkErr)
		}
	}

	report.Latency = time.Since(start)
	if err != nil {
		return markJobFailed(report, err)
	}

	report.Status = JobStatusCompleted
	report.Country = result.Country
	report.RowsRead = result.Stats.RowsRead
	report.RowsRetained = result.Stats.RowsRetained
	report.Result = result

	log.Info().
		Str("country", result.Country).
		Int("rows", result.Stats.RowsRetained).
		Dur("latency", report.Latency).
		Msg("pipeline: country completed")
	return report
}

func (w *Worker) consolidate(job CountryJob) (*consolidation.Result, error) {
	rc, err := openJob(job)
	if err != nil {
		return nil, &consolidation.InputParseError{Country: job.Country, Err: err}
	}
	defer rc.Close()

	return w.engine.ConsolidateCategory(rc, job.Country, job.Category)
}

func openJob(job CountryJob) (io.ReadCloser, error) {
	if job.Open != nil {
		return job.Open()
	}
	if job.Path == "" {
		return nil, fmt.Errorf("job for %s has no input", job.Country)
	}
	return os.Open(job.Path)
}

// markJobFailed records the error on the report
func markJobFailed(report JobReport, err error) JobReport {
	report.Status = JobStatusFailed
	report.Err = fmt.Errorf("%s: %w", report.Job.Country, err)
	report.ErrorMessage = err.Error()

	log.Error().Err(err).Str("country", report.Job.Country).Int("attempts", report.Attempts).
		Msg("pipeline: country failed")
	return report
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
