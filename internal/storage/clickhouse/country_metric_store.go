package clickhouse

import (
	"context"
	"fmt"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

// CountryMetricStore implements storage.CountryMetricStore using ClickHouse.
type CountryMetricStore struct {
	conn *Conn
}

// NewCountryMetricStore creates a new CountryMetricStore.
func NewCountryMetricStore(conn *Conn) *CountryMetricStore {
	return &CountryMetricStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CountryMetricStore = (*CountryMetricStore)(nil)

// InsertBulk writes the run's ranking in one batch. Returns ErrDuplicateKey if the run exists.
func (s *CountryMetricStore) InsertBulk(ctx context.Context, runID string, rows []domain.CountryMetric) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := runExists(ctx, s.conn, "country_metrics", runID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}
	if len(rows) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO country_metrics (run_id, seq, country, total_revenue, customer_count, order_count)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, c := range rows {
		err := batch.Append(runID, uint32(i), c.Country, money(c.TotalRevenue), int64(c.CustomerCount), int64(c.OrderCount))
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRun returns the run's ranking.
func (s *CountryMetricStore) GetByRun(ctx context.Context, runID string) ([]domain.CountryMetric, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT country, total_revenue, customer_count, order_count
		FROM country_metrics
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query country metrics: %w", err)
	}
	defer rows.Close()

	var result []domain.CountryMetric
	for rows.Next() {
		var (
			c                 domain.CountryMetric
			customers, orders int64
		)
		if err := rows.Scan(&c.Country, &c.TotalRevenue, &customers, &orders); err != nil {
			return nil, fmt.Errorf("scan country metric: %w", err)
		}
		c.CustomerCount = int(customers)
		c.OrderCount = int(orders)
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}

// NewSnapshotStores returns the four snapshot stores sharing conn.
func NewSnapshotStores(conn *Conn) storage.SnapshotStores {
	return storage.SnapshotStores{
		Monthly:   NewMonthlyRevenueStore(conn),
		Customers: NewCustomerMetricStore(conn),
		Products:  NewProductMetricStore(conn),
		Countries: NewCountryMetricStore(conn),
	}
}
