package storage

import (
	"context"
	"time"
)

// Run statuses
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// RunRecord describes one pipeline execution.
type RunRecord struct {
	RunID       string // content hash of the cleaned set; empty runs are keyed by start time
	Source      string // input description (file path, "postgres", "fixtures")
	StartedAt   time.Time
	FinishedAt  time.Time
	RawRows     int
	CleanedRows int
	Status      string
	Error       string
}

// RunStore keeps the run registry. Re-running on unchanged data
// overwrites the record for the same RunID.
type RunStore interface {
	// Record inserts or replaces the record keyed by RunID.
	Record(ctx context.Context, run *RunRecord) error

	// Get returns a run by ID. Returns ErrNotFound if not exists.
	Get(ctx context.Context, runID string) (*RunRecord, error)

	// Latest returns the most recently finished successful run.
	// Returns ErrNotFound if none has been recorded.
	Latest(ctx context.Context) (*RunRecord, error)

	// List returns all runs ordered by FinishedAt ASC.
	List(ctx context.Context) ([]*RunRecord, error)
}
