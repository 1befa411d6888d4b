package clickhouse

import (
	"context"
	"fmt"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

// ProductMetricStore implements storage.ProductMetricStore using ClickHouse.
type ProductMetricStore struct {
	conn *Conn
}

// NewProductMetricStore creates a new ProductMetricStore.
func NewProductMetricStore(conn *Conn) *ProductMetricStore {
	return &ProductMetricStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ProductMetricStore = (*ProductMetricStore)(nil)

// InsertBulk writes the run's ranking in one batch. Returns ErrDuplicateKey if the run exists.
func (s *ProductMetricStore) InsertBulk(ctx context.Context, runID string, rows []domain.ProductMetric) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := runExists(ctx, s.conn, "product_metrics", runID)
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
		INSERT INTO product_metrics (
			run_id, seq, stock_code, description, total_quantity, total_revenue, order_count
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, p := range rows {
		err := batch.Append(
			runID, uint32(i), p.StockCode, p.Description,
			int64(p.TotalQuantity), money(p.TotalRevenue), int64(p.OrderCount),
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

// GetByRun returns the run's ranking.
func (s *ProductMetricStore) GetByRun(ctx context.Context, runID string) ([]domain.ProductMetric, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT stock_code, description, total_quantity, total_revenue, order_count
		FROM product_metrics
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query product metrics: %w", err)
	}
	defer rows.Close()

	var result []domain.ProductMetric
	for rows.Next() {
		var (
			p                domain.ProductMetric
			quantity, orders int64
		)
		if err := rows.Scan(&p.StockCode, &p.Description, &quantity, &p.TotalRevenue, &orders); err != nil {
			return nil, fmt.Errorf("scan product metric: %w", err)
		}
		p.TotalQuantity = int(quantity)
		p.OrderCount = int(orders)
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}
