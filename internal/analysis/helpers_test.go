package analysis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"retail-sales-lab/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type txOpt func(*domain.CleanedTransaction)

func withStock(code, desc string) txOpt {
	return func(tx *domain.CleanedTransaction) { tx.StockCode, tx.Description = code, desc }
}

func withCountry(c string) txOpt {
	return func(tx *domain.CleanedTransaction) { tx.Country = c }
}

func withMonth(year int, month time.Month) txOpt {
	return func(tx *domain.CleanedTransaction) {
		tx.InvoiceDate = time.Date(year, month, 10, 9, 0, 0, 0, time.UTC)
		tx.YearMonth = domain.YearMonthOf(tx.InvoiceDate)
	}
}

func withQty(q int) txOpt {
	return func(tx *domain.CleanedTransaction) { tx.Quantity = q }
}

// mkTx builds a cleaned transaction whose TotalPrice equals total (quantity 1 unless overridden).
func mkTx(customer, invoice, total string, opts ...txOpt) domain.CleanedTransaction {
	tx := domain.CleanedTransaction{
		InvoiceNo:   invoice,
		StockCode:   "SKU",
		Description: "item",
		Quantity:    1,
		CustomerID:  customer,
		Country:     "United Kingdom",
	}
	withMonth(2011, time.January)(&tx)
	for _, o := range opts {
		o(&tx)
	}
	tx.TotalPrice = dec(total)
	tx.UnitPrice = tx.TotalPrice.Div(decimal.NewFromInt(int64(tx.Quantity)))
	return tx
}

func assertDecEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}
