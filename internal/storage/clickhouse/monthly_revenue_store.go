package clickhouse

import (
	"context"
	"fmt"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

// MonthlyRevenueStore implements storage.MonthlyRevenueStore using ClickHouse.
type MonthlyRevenueStore struct {
	conn *Conn
}

// NewMonthlyRevenueStore creates a new MonthlyRevenueStore.
func NewMonthlyRevenueStore(conn *Conn) *MonthlyRevenueStore {
	return &MonthlyRevenueStore{conn: conn}
}

// Compile-time interface check.
var _ storage.MonthlyRevenueStore = (*MonthlyRevenueStore)(nil)

// InsertBulk writes the run's series in one batch. Returns ErrDuplicateKey if the run exists.
func (s *MonthlyRevenueStore) InsertBulk(ctx context.Context, runID string, rows []domain.MonthlyRevenue) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}

	exists, err := runExists(ctx, s.conn, "monthly_revenue", runID)
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
		INSERT INTO monthly_revenue (run_id, seq, month, revenue, growth_rate_percent)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for i, m := range rows {
		if err := batch.Append(runID, uint32(i), m.Month.String(), money(m.Revenue), m.GrowthRatePercent); err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByRun returns the run's series in chronological order.
func (s *MonthlyRevenueStore) GetByRun(ctx context.Context, runID string) ([]domain.MonthlyRevenue, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT month, revenue, growth_rate_percent
		FROM monthly_revenue
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query monthly revenue: %w", err)
	}
	defer rows.Close()

	var result []domain.MonthlyRevenue
	for rows.Next() {
		var (
			month string
			m     domain.MonthlyRevenue
		)
		if err := rows.Scan(&month, &m.Revenue, &m.GrowthRatePercent); err != nil {
			return nil, fmt.Errorf("scan monthly revenue: %w", err)
		}
		if m.Month, err = domain.ParseYearMonth(month); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, storage.ErrNotFound
	}
	return result, nil
}
