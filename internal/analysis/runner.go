package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"retail-sales-lab/internal/domain"
)

// Results bundles the output of the four analyzers over one cleaned set.
type Results struct {
	Revenue   RevenueTrend
	Customers *CustomerSegmentation
	Products  *ProductPerformance
	Countries []domain.CountryMetric
}

// Runner runs the analyzers. The analyzers share no state, so in concurrent
// mode each runs in its own goroutine over the same read-only input.
type Runner struct {
	concurrent bool
}

// NewRunner creates a sequential runner.
func NewRunner() *Runner {
	return &Runner{}
}

// WithConcurrency toggles concurrent execution.
func (r *Runner) WithConcurrency(enabled bool) *Runner {
	r.concurrent = enabled
	return r
}

// Concurrent reports whether the runner fans out.
func (r *Runner) Concurrent() bool {
	return r.concurrent
}

// Run executes all analyzers. Returns ErrEmptyDataset for an empty input
// before any analyzer runs.
func (r *Runner) Run(ctx context.Context, txs []domain.CleanedTransaction) (*Results, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if r.concurrent {
		return r.runConcurrent(ctx, txs)
	}
	return r.runSequential(txs)
}

func (r *Runner) runSequential(txs []domain.CleanedTransaction) (*Results, error) {
	res := &Results{Revenue: MonthlyRevenue(txs)}

	customers, err := SegmentCustomers(txs)
	if err != nil {
		return nil, fmt.Errorf("segment customers: %w", err)
	}
	res.Customers = customers

	products, err := AnalyzeProducts(txs)
	if err != nil {
		return nil, fmt.Errorf("analyze products: %w", err)
	}
	res.Products = products

	res.Countries = AnalyzeGeography(txs)
	return res, nil
}

func (r *Runner) runConcurrent(ctx context.Context, txs []domain.CleanedTransaction) (*Results, error) {
	g, ctx := errgroup.WithContext(ctx)
	res := &Results{}

	// Each goroutine writes a distinct field.
	g.Go(func() error {
		res.Revenue = MonthlyRevenue(txs)
		return ctx.Err()
	})
	g.Go(func() error {
		customers, err := SegmentCustomers(txs)
		if err != nil {
			return fmt.Errorf("segment customers: %w", err)
		}
		res.Customers = customers
		return nil
	})
	g.Go(func() error {
		products, err := AnalyzeProducts(txs)
		if err != nil {
			return fmt.Errorf("analyze products: %w", err)
		}
		res.Products = products
		return nil
	})
	g.Go(func() error {
		res.Countries = AnalyzeGeography(txs)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
