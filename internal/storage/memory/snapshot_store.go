package memory

import (
	"context"
	"sync"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

// runTable holds one append-only table per run.
type runTable[T any] struct {
	mu   sync.RWMutex
	data map[string][]T // keyed by run_id
	copy func(T) T
}

func newRunTable[T any](copyFn func(T) T) *runTable[T] {
	return &runTable[T]{
		data: make(map[string][]T),
		copy: copyFn,
	}
}

func (t *runTable[T]) insert(runID string, rows []T) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.data[runID]; exists {
		return storage.ErrDuplicateKey
	}

	stored := make([]T, len(rows))
	for i := range rows {
		stored[i] = t.copy(rows[i])
	}
	t.data[runID] = stored
	return nil
}

func (t *runTable[T]) get(runID string) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows, exists := t.data[runID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	result := make([]T, len(rows))
	for i := range rows {
		result[i] = t.copy(rows[i])
	}
	return result, nil
}

func identity[T any](v T) T { return v }

// MonthlyRevenueStore is an in-memory implementation of storage.MonthlyRevenueStore.
type MonthlyRevenueStore struct {
	table *runTable[domain.MonthlyRevenue]
}

// NewMonthlyRevenueStore creates a new in-memory monthly revenue store.
func NewMonthlyRevenueStore() *MonthlyRevenueStore {
	return &MonthlyRevenueStore{table: newRunTable(func(m domain.MonthlyRevenue) domain.MonthlyRevenue {
		if m.GrowthRatePercent != nil {
			g := *m.GrowthRatePercent
			m.GrowthRatePercent = &g
		}
		return m
	})}
}

// InsertBulk stores the run's series. Returns ErrDuplicateKey if the run exists.
func (s *MonthlyRevenueStore) InsertBulk(_ context.Context, runID string, rows []domain.MonthlyRevenue) error {
	return s.table.insert(runID, rows)
}

// GetByRun returns the run's series in chronological order.
func (s *MonthlyRevenueStore) GetByRun(_ context.Context, runID string) ([]domain.MonthlyRevenue, error) {
	return s.table.get(runID)
}

// CustomerMetricStore is an in-memory implementation of storage.CustomerMetricStore.
type CustomerMetricStore struct {
	table *runTable[domain.CustomerMetric]
}

// NewCustomerMetricStore creates a new in-memory customer metric store.
func NewCustomerMetricStore() *CustomerMetricStore {
	return &CustomerMetricStore{table: newRunTable(identity[domain.CustomerMetric])}
}

// InsertBulk stores the run's customers. Returns ErrDuplicateKey if the run exists.
func (s *CustomerMetricStore) InsertBulk(_ context.Context, runID string, rows []domain.CustomerMetric) error {
	return s.table.insert(runID, rows)
}

// GetByRun returns the run's customers in insertion order.
func (s *CustomerMetricStore) GetByRun(_ context.Context, runID string) ([]domain.CustomerMetric, error) {
	return s.table.get(runID)
}

// ProductMetricStore is an in-memory implementation of storage.ProductMetricStore.
type ProductMetricStore struct {
	table *runTable[domain.ProductMetric]
}

// NewProductMetricStore creates a new in-memory product metric store.
func NewProductMetricStore() *ProductMetricStore {
	return &ProductMetricStore{table: newRunTable(identity[domain.ProductMetric])}
}

// InsertBulk stores the run's ranking. Returns ErrDuplicateKey if the run exists.
func (s *ProductMetricStore) InsertBulk(_ context.Context, runID string, rows []domain.ProductMetric) error {
	return s.table.insert(runID, rows)
}

// GetByRun returns the run's ranking.
func (s *ProductMetricStore) GetByRun(_ context.Context, runID string) ([]domain.ProductMetric, error) {
	return s.table.get(runID)
}

// CountryMetricStore is an in-memory implementation of storage.CountryMetricStore.
type CountryMetricStore struct {
	table *runTable[domain.CountryMetric]
}

// NewCountryMetricStore creates a new in-memory country metric store.
func NewCountryMetricStore() *CountryMetricStore {
	return &CountryMetricStore{table: newRunTable(identity[domain.CountryMetric])}
}

// InsertBulk stores the run's ranking. Returns ErrDuplicateKey if the run exists.
func (s *CountryMetricStore) InsertBulk(_ context.Context, runID string, rows []domain.CountryMetric) error {
	return s.table.insert(runID, rows)
}

// GetByRun returns the run's ranking.
func (s *CountryMetricStore) GetByRun(_ context.Context, runID string) ([]domain.CountryMetric, error) {
	return s.table.get(runID)
}

// NewSnapshotStores returns a fresh set of in-memory snapshot stores.
func NewSnapshotStores() storage.SnapshotStores {
	return storage.SnapshotStores{
		Monthly:   NewMonthlyRevenueStore(),
		Customers: NewCustomerMetricStore(),
		Products:  NewProductMetricStore(),
		Countries: NewCountryMetricStore(),
	}
}

var (
	_ storage.MonthlyRevenueStore = (*MonthlyRevenueStore)(nil)
	_ storage.CustomerMetricStore = (*CustomerMetricStore)(nil)
	_ storage.ProductMetricStore  = (*ProductMetricStore)(nil)
	_ storage.CountryMetricStore  = (*CountryMetricStore)(nil)
)
