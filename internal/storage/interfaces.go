package storage

import (
	"context"

	"retail-sales-lab/internal/domain"
)

// TransactionStore provides access to raw transaction rows.
type TransactionStore interface {
	// InsertBulk appends records atomically, preserving their order.
	InsertBulk(ctx context.Context, records []domain.TransactionRecord) error

	// GetAll retrieves every record in insertion order.
	GetAll(ctx context.Context) ([]domain.TransactionRecord, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

// Run-scoped snapshot stores. Each run's table is written once:
// InsertBulk returns ErrDuplicateKey if rows for runID already exist.
// GetByRun returns rows in the order they were inserted, or ErrNotFound.

// MonthlyRevenueStore persists the monthly revenue series per run.
type MonthlyRevenueStore interface {
	InsertBulk(ctx context.Context, runID string, rows []domain.MonthlyRevenue) error
	GetByRun(ctx context.Context, runID string) ([]domain.MonthlyRevenue, error)
}

// CustomerMetricStore persists the customer segmentation table per run.
type CustomerMetricStore interface {
	InsertBulk(ctx context.Context, runID string, rows []domain.CustomerMetric) error
	GetByRun(ctx context.Context, runID string) ([]domain.CustomerMetric, error)
}

// ProductMetricStore persists the product ranking per run.
type ProductMetricStore interface {
	InsertBulk(ctx context.Context, runID string, rows []domain.ProductMetric) error
	GetByRun(ctx context.Context, runID string) ([]domain.ProductMetric, error)
}

// CountryMetricStore persists the country ranking per run.
type CountryMetricStore interface {
	InsertBulk(ctx context.Context, runID string, rows []domain.CountryMetric) error
	GetByRun(ctx context.Context, runID string) ([]domain.CountryMetric, error)
}

// SnapshotStores groups the four snapshot stores of one backend.
type SnapshotStores struct {
	Monthly   MonthlyRevenueStore
	Customers CustomerMetricStore
	Products  ProductMetricStore
	Countries CountryMetricStore
}
