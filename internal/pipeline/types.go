package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/andresuchdata/stockdash/internal/pipeline/consolidation"
)

// CountryJob is one country's POS export queued for consolidation. Path is
// opened from disk unless Open is set.
type CountryJob struct {
	Country  string                        `json:"country"`
	Category string                        `json:"category,omitempty"`
	Path     string                        `json:"path"`
	Open     func() (io.ReadCloser, error) `json:"-"`
}

// Sink receives each successful result. A sink error fails the job.
type Sink func(ctx context.Context, job CountryJob, result *consolidation.Result) error

// Config holds configuration for an orchestrator run
type Config struct {
	WorkerCount   int           // Number of countries consolidated concurrently
	RetryAttempts int           // Attempts per job when the input stream fails
	RetryBackoff  time.Duration // Backoff duration between retries
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		WorkerCount:   5,
		RetryAttempts: 2,
		RetryBackoff:  time.Second,
	}
}

// RunStatus represents the state of a whole run
type RunStatus string

const (
	StatusCompleted RunStatus = "completed"
	StatusPartial   RunStatus = "partial"
	StatusFailed    RunStatus = "failed"
)

// JobStatus represents the state of a single country job
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// JobReport tracks the processing of a single country job
type JobReport struct {
	Job          CountryJob            `json:"job"`
	Country      string                `json:"country"`
	Status       JobStatus             `json:"status"`
	RowsRead     int                   `json:"rows_read"`
	RowsRetained int                   `json:"rows_retained"`
	Attempts     int                   `json:"attempts"`
	Latency      time.Duration         `json:"latency"`
	ErrorMessage string                `json:"error,omitempty"`
	Result       *consolidation.Result `json:"-"`
	Err          error                 `json:"-"`
}

// RunSummary reports every job of a run in input order.
type RunSummary struct {
	Status      RunStatus   `json:"status"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt time.Time   `json:"completed_at"`
	Jobs        []JobReport `json:"jobs"`
	Completed   int         `json:"completed"`
	Failed      int         `json:"failed"`
}
