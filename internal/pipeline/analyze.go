// Package pipeline wires loading, cleaning, analysis, recommendations,
// reporting and export into one batch run.
package pipeline

import (
	"context"
	"fmt"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/cleaning"
	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/idhash"
	"retail-sales-lab/internal/recommendation"
)

// Analysis is the in-memory outcome of one pass over a raw dataset.
type Analysis struct {
	Stats           cleaning.Stats
	Transactions    []domain.CleanedTransaction
	Results         *analysis.Results
	Recommendations *domain.Recommendations
}

// Analyze cleans records, runs the analyzers and derives recommendations.
// It fails with analysis.ErrEmptyDataset when nothing survives cleaning,
// before any metric table is produced. A nil runner runs sequentially.
func Analyze(
	ctx context.Context,
	records []domain.TransactionRecord,
	engine *recommendation.Engine,
	runner *analysis.Runner,
) (*Analysis, error) {
	if engine == nil {
		return nil, fmt.Errorf("analyze: recommendation engine is required")
	}
	if runner == nil {
		runner = analysis.NewRunner()
	}

	txs, stats := cleaning.Clean(records)
	out := &Analysis{Stats: stats, Transactions: txs}
	if len(txs) == 0 {
		return out, fmt.Errorf("analyze %d raw rows: %w", stats.InputRows, analysis.ErrEmptyDataset)
	}

	res, err := runner.Run(ctx, txs)
	if err != nil {
		return out, fmt.Errorf("run analyzers: %w", err)
	}
	out.Results = res

	recs, err := engine.Generate(txs, res.Customers, res.Products)
	if err != nil {
		return out, fmt.Errorf("generate recommendations: %w", err)
	}
	out.Recommendations = recs
	return out, nil
}

// ComputeRunID hashes the cleaned set into a short content id.
// The same cleaned rows in the same order always yield the same id.
func ComputeRunID(txs []domain.CleanedTransaction) string {
	return idhash.ComputeRunID(txs)
}
