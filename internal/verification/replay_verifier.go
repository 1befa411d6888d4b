package verification

import (
	"context"
	"errors"
	"fmt"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/pipeline"
	"retail-sales-lab/internal/recommendation"
	"retail-sales-lab/internal/reporting"
	"retail-sales-lab/internal/storage"
)

// ErrRunMismatch is returned when the source transactions no longer hash to the requested run.
var ErrRunMismatch = errors.New("source data does not match run")

// ReplayVerifier recomputes a run from the source store and compares it
// with the stored snapshots.
type ReplayVerifier struct {
	source    storage.TransactionStore
	snapshots storage.SnapshotStores
	engine    *recommendation.Engine
	runner    *analysis.Runner
}

// ReplayVerifierOptions contains configuration for creating a ReplayVerifier.
type ReplayVerifierOptions struct {
	Source    storage.TransactionStore
	Snapshots storage.SnapshotStores
	Engine    *recommendation.Engine
	Runner    *analysis.Runner // optional, sequential when nil
}

// NewReplayVerifier creates a new ReplayVerifier.
func NewReplayVerifier(opts ReplayVerifierOptions) *ReplayVerifier {
	runner := opts.Runner
	if runner == nil {
		runner = analysis.NewRunner()
	}
	return &ReplayVerifier{
		source:    opts.Source,
		snapshots: opts.Snapshots,
		engine:    opts.Engine,
		runner:    runner,
	}
}

// Verify replays runID. Returns ErrRunMismatch if the source data hashes
// to a different run, and storage.ErrNotFound if the run has no snapshots.
func (v *ReplayVerifier) Verify(ctx context.Context, runID string) (*Report, error) {
	records, err := v.source.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	a, err := pipeline.Analyze(ctx, records, v.engine, v.runner)
	if err != nil {
		return nil, err
	}

	if got := pipeline.ComputeRunID(a.Transactions); got != runID {
		return nil, fmt.Errorf("%w: source hashes to %s, want %s", ErrRunMismatch, got, runID)
	}

	stored, err := pipeline.LoadTables(ctx, v.snapshots, runID)
	if err != nil {
		return nil, err
	}

	divs, checked := CompareTables(stored, reporting.TablesFrom(a.Results))
	return &Report{RunID: runID, RowsChecked: checked, Divergences: divs}, nil
}
