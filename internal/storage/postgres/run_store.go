package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"retail-sales-lab/internal/storage"
)

// RunStore is a PostgreSQL implementation of storage.RunStore
// backed by the pipeline_runs table.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new PostgreSQL run store.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

var _ storage.RunStore = (*RunStore)(nil)

const runColumns = `run_id, source, started_at, finished_at, raw_rows, cleaned_rows, status, error`

// Record inserts or replaces the run.
// Uses upsert so a re-run on unchanged data refreshes the existing row.
func (s *RunStore) Record(ctx context.Context, run *storage.RunRecord) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO pipeline_runs (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO UPDATE
		SET source = EXCLUDED.source,
		    started_at = EXCLUDED.started_at,
		    finished_at = EXCLUDED.finished_at,
		    raw_rows = EXCLUDED.raw_rows,
		    cleaned_rows = EXCLUDED.cleaned_rows,
		    status = EXCLUDED.status,
		    error = EXCLUDED.error
	`,
		run.RunID,
		run.Source,
		run.StartedAt,
		run.FinishedAt,
		run.RawRows,
		run.CleanedRows,
		run.Status,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Get returns a run by ID. Returns ErrNotFound if not exists.
func (s *RunStore) Get(ctx context.Context, runID string) (*storage.RunRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM pipeline_runs
		WHERE run_id = $1
	`, runID)
	return scanRun(row)
}

// Latest returns the most recently finished successful run.
func (s *RunStore) Latest(ctx context.Context) (*storage.RunRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+runColumns+`
		FROM pipeline_runs
		WHERE status = $1
		ORDER BY finished_at DESC, run_id DESC
		LIMIT 1
	`, storage.RunStatusSucceeded)
	return scanRun(row)
}

// List returns all runs ordered by FinishedAt ASC, then RunID.
func (s *RunStore) List(ctx context.Context) ([]*storage.RunRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+runColumns+`
		FROM pipeline_runs
		ORDER BY finished_at ASC, run_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*storage.RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(row pgx.Row) (*storage.RunRecord, error) {
	var run storage.RunRecord
	err := row.Scan(
		&run.RunID,
		&run.Source,
		&run.StartedAt,
		&run.FinishedAt,
		&run.RawRows,
		&run.CleanedRows,
		&run.Status,
		&run.Error,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	return &run, nil
}
