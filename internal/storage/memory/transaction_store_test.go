package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

func testRecord(invoice string, customer *string) domain.TransactionRecord {
	return domain.TransactionRecord{
		InvoiceNo:   invoice,
		StockCode:   "85123A",
		Description: "WHITE HANGING HEART T-LIGHT HOLDER",
		Quantity:    6,
		InvoiceDate: time.Date(2010, 12, 1, 8, 26, 0, 0, time.UTC),
		UnitPrice:   decimal.RequireFromString("2.55"),
		CustomerID:  customer,
		Country:     "United Kingdom",
	}
}

func TestTransactionStore_InsertAndGetAll(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	id := "17850"
	records := []domain.TransactionRecord{
		testRecord("536365", &id),
		testRecord("536366", nil),
		testRecord("536367", &id),
	}

	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(got))
	}
	for i, want := range []string{"536365", "536366", "536367"} {
		if got[i].InvoiceNo != want {
			t.Errorf("Record %d: got invoice %s, want %s", i, got[i].InvoiceNo, want)
		}
	}
	if got[1].CustomerID != nil {
		t.Errorf("Expected nil customer, got %v", *got[1].CustomerID)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v; want 3", n, err)
	}
}

func TestTransactionStore_CopiesOnInsertAndGet(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	id := "17850"
	records := []domain.TransactionRecord{testRecord("536365", &id)}
	if err := store.InsertBulk(ctx, records); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	id = "mutated"
	got, _ := store.GetAll(ctx)
	if *got[0].CustomerID != "17850" {
		t.Errorf("Stored record aliased caller memory: %s", *got[0].CustomerID)
	}

	*got[0].CustomerID = "mutated again"
	again, _ := store.GetAll(ctx)
	if *again[0].CustomerID != "17850" {
		t.Errorf("GetAll result aliased store memory: %s", *again[0].CustomerID)
	}
}

func TestTransactionStore_InvalidBatchRejected(t *testing.T) {
	store := NewTransactionStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []domain.TransactionRecord{testRecord("1", nil), {}})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	n, _ := store.Count(ctx)
	if n != 0 {
		t.Errorf("Expected empty store after rejected batch, got %d", n)
	}
}
