package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// InsertBulk appends records in one transaction. row_id keeps their order.
func (s *TransactionStore) InsertBulk(ctx context.Context, records []domain.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		if records[i].InvoiceNo == "" && records[i].StockCode == "" {
			return fmt.Errorf("record %d: %w", i, storage.ErrInvalidInput)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO transactions (
			invoice_no, stock_code, description, quantity, invoice_date, unit_price, customer_id, country
		) VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
	`

	batch := &pgx.Batch{}
	for i := range records {
		r := &records[i]
		batch.Queue(query,
			r.InvoiceNo,
			r.StockCode,
			r.Description,
			r.Quantity,
			r.InvoiceDate,
			r.UnitPrice.String(),
			r.CustomerID,
			r.Country,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range records {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// GetAll retrieves every record in insertion order.
func (s *TransactionStore) GetAll(ctx context.Context) ([]domain.TransactionRecord, error) {
	query := `
		SELECT invoice_no, stock_code, description, quantity, invoice_date, unit_price::text, customer_id, country
		FROM transactions
		ORDER BY row_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// Count returns the number of stored records.
func (s *TransactionStore) Count(ctx context.Context) (int, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return int(n), nil
}

func scanTransactions(rows pgx.Rows) ([]domain.TransactionRecord, error) {
	var result []domain.TransactionRecord
	for rows.Next() {
		var (
			r     domain.TransactionRecord
			price string
		)
		err := rows.Scan(
			&r.InvoiceNo,
			&r.StockCode,
			&r.Description,
			&r.Quantity,
			&r.InvoiceDate,
			&price,
			&r.CustomerID,
			&r.Country,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		r.UnitPrice, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("parse unit_price %q: %w", price, err)
		}
		r.InvoiceDate = r.InvoiceDate.UTC()
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return result, nil
}
