package memory

import (
	"context"
	"sync"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu   sync.RWMutex
	data []domain.TransactionRecord // insertion order
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{}
}

// InsertBulk appends records. Fails the entire batch on an invalid record.
func (s *TransactionStore) InsertBulk(_ context.Context, records []domain.TransactionRecord) error {
	if len(records) == 0 {
		return nil
	}

	// First pass: validate
	for i := range records {
		if records[i].InvoiceNo == "" && records[i].StockCode == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Second pass: insert copies
	for i := range records {
		s.data = append(s.data, copyRecord(records[i]))
	}
	return nil
}

// GetAll retrieves every record in insertion order.
func (s *TransactionStore) GetAll(_ context.Context) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.TransactionRecord, len(s.data))
	for i := range s.data {
		result[i] = copyRecord(s.data[i])
	}
	return result, nil
}

// Count returns the number of stored records.
func (s *TransactionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data), nil
}

func copyRecord(r domain.TransactionRecord) domain.TransactionRecord {
	if r.CustomerID != nil {
		id := *r.CustomerID
		r.CustomerID = &id
	}
	return r
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
