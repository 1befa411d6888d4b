// Package cleaning filters raw transaction records down to valid sales.
package cleaning

import (
	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
)

// Stats describes one cleaning pass. Each dropped row is counted once,
// under the first rule it fails (customer, then quantity, then price).
type Stats struct {
	InputRows                  int
	OutputRows                 int
	DroppedMissingCustomer     int
	DroppedNonPositiveQuantity int
	DroppedNonPositivePrice    int
}

// Dropped returns the total number of removed rows.
func (s Stats) Dropped() int {
	return s.DroppedMissingCustomer + s.DroppedNonPositiveQuantity + s.DroppedNonPositivePrice
}

// Clean drops records with no customer, non-positive quantity or
// non-positive unit price, and derives TotalPrice and YearMonth for the rest.
// Input order is preserved. The input slice is not modified.
func Clean(records []domain.TransactionRecord) ([]domain.CleanedTransaction, Stats) {
	stats := Stats{InputRows: len(records)}
	out := make([]domain.CleanedTransaction, 0, len(records))

	for i := range records {
		r := &records[i]
		switch {
		case !r.HasCustomer():
			stats.DroppedMissingCustomer++
			continue
		case r.Quantity <= 0:
			stats.DroppedNonPositiveQuantity++
			continue
		case !r.UnitPrice.IsPositive():
			stats.DroppedNonPositivePrice++
			continue
		}
		out = append(out, derive(r))
	}

	stats.OutputRows = len(out)
	return out, stats
}

func derive(r *domain.TransactionRecord) domain.CleanedTransaction {
	return domain.CleanedTransaction{
		InvoiceNo:   r.InvoiceNo,
		StockCode:   r.StockCode,
		Description: r.Description,
		Quantity:    r.Quantity,
		InvoiceDate: r.InvoiceDate,
		UnitPrice:   r.UnitPrice,
		CustomerID:  *r.CustomerID,
		Country:     r.Country,
		TotalPrice:  r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))),
		YearMonth:   domain.YearMonthOf(r.InvoiceDate),
	}
}
