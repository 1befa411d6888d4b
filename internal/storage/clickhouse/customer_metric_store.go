package clickhouse

import (
	"context"
	"fmt"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

// CustomerMetricStore implements storage.CustomerMetricStore using ClickHouse.
type CustomerMetricStore struct {
	conn *Conn
}

// NewCustomerMetricStore creates a new CustomerMetricStore.
func NewCustomerMetricStore(conn *Conn) *CustomerMetricStore {
	return &CustomerMetricStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CustomerMetricStore = (*CustomerMetricStore)(nil)

// InsertBulk writes the run's customers in one batch. Returns ErrDuplicateKey if the run exists.
func (s *CustomerMetricStore) InsertBulk(ctx context.Context, runID string, rows []domain.CustomerMetric) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := runExists(ctx, s.conn, "customer_metrics", runID)
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
		INSERT INTO customer_metrics (
			run_id, seq, customer_id, order_count, total_revenue,
			total_items, avg_order_value, segment
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, c := range rows {
		err := batch.Append(
			runID, uint32(i), c.CustomerID, int64(c.OrderCount), money(c.TotalRevenue),
			int64(c.TotalItems), money(c.AvgOrderValue), string(c.Segment),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRun returns the run's customers in insertion order.
func (s *CustomerMetricStore) GetByRun(ctx context.Context, runID string) ([]domain.CustomerMetric, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT customer_id, order_count, total_revenue, total_items, avg_order_value, segment
		FROM customer_metrics
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query customer metrics: %w", err)
	}
	defer rows.Close()

	var result []domain.CustomerMetric
	for rows.Next() {
		var (
			c             domain.CustomerMetric
			orders, items int64
			segment       string
		)
		if err := rows.Scan(&c.CustomerID, &orders, &c.TotalRevenue, &items, &c.AvgOrderValue, &segment); err != nil {
			return nil, fmt.Errorf("scan customer metric: %w", err)
		}
		c.OrderCount = int(orders)
		c.TotalItems = int(items)
		c.Segment = domain.Segment(segment)
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
