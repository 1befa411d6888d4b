package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one invoice line item as delivered by the input boundary.
// Column order follows the source dataset: InvoiceNo, StockCode, Description,
// Quantity, InvoiceDate, UnitPrice, CustomerID, Country.
type TransactionRecord struct {
	InvoiceNo   string          // invoice identifier
	StockCode   string          // product code
	Description string          // free-text product description
	Quantity    int             // units (negative for cancellations)
	InvoiceDate time.Time       // invoice timestamp
	UnitPrice   decimal.Decimal // price per unit
	CustomerID  *string         // nullable
	Country     string          // customer country
}

// HasCustomer reports whether the record carries a customer identifier.
func (r *TransactionRecord) HasCustomer() bool {
	return r.CustomerID != nil && *r.CustomerID != ""
}

// CleanedTransaction is a TransactionRecord that passed cleaning, with derived fields.
// Invariants: CustomerID non-empty, Quantity > 0, UnitPrice > 0.
type CleanedTransaction struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int
	InvoiceDate time.Time
	UnitPrice   decimal.Decimal
	CustomerID  string
	Country     string

	// Derived
	TotalPrice decimal.Decimal // Quantity * UnitPrice
	YearMonth  YearMonth       // calendar month of InvoiceDate
}

// TotalRevenue sums TotalPrice over a cleaned set.
func TotalRevenue(txs []CleanedTransaction) decimal.Decimal {
	total := decimal.Zero
	for i := range txs {
		total = total.Add(txs[i].TotalPrice)
	}
	return total
}
