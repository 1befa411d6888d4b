package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
)

// ParetoFraction is the share of top products whose revenue share is reported.
const ParetoFraction = 0.2

// ProductPerformance is the result of the product analysis.
type ProductPerformance struct {
	Products  []domain.ProductMetric // revenue descending, stock code ascending on ties
	TopCount  int                    // floor(len(Products) * ParetoFraction)
	ParetoPct float64                // revenue share of the TopCount products, percent
}

// Top returns the first n products, or all of them when fewer exist.
func (pp *ProductPerformance) Top(n int) []domain.ProductMetric {
	if n > len(pp.Products) {
		n = len(pp.Products)
	}
	return pp.Products[:n]
}

// Bottom returns the last n products in ranking order (lowest revenue last).
func (pp *ProductPerformance) Bottom(n int) []domain.ProductMetric {
	if n > len(pp.Products) {
		n = len(pp.Products)
	}
	return pp.Products[len(pp.Products)-n:]
}

type productAcc struct {
	description string
	quantity    int
	revenue     decimal.Decimal
	invoices    map[string]struct{}
}

// AnalyzeProducts aggregates per stock code, ranks by revenue and computes
// the Pareto share of the top fifth.
func AnalyzeProducts(txs []domain.CleanedTransaction) (*ProductPerformance, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}

	accs := make(map[string]*productAcc)
	for i := range txs {
		tx := &txs[i]
		acc, ok := accs[tx.StockCode]
		if !ok {
			// First observed description wins.
			acc = &productAcc{description: tx.Description, invoices: make(map[string]struct{})}
			accs[tx.StockCode] = acc
		}
		acc.quantity += tx.Quantity
		acc.revenue = acc.revenue.Add(tx.TotalPrice)
		acc.invoices[tx.InvoiceNo] = struct{}{}
	}

	products := make([]domain.ProductMetric, 0, len(accs))
	for code, acc := range accs {
		products = append(products, domain.ProductMetric{
			StockCode:     code,
			Description:   acc.description,
			TotalQuantity: acc.quantity,
			TotalRevenue:  acc.revenue,
			OrderCount:    len(acc.invoices),
		})
	}
	SortProducts(products)

	k := FractionCount(len(products), ParetoFraction)
	return &ProductPerformance{
		Products:  products,
		TopCount:  k,
		ParetoPct: percentOf(sumProductRevenue(products[:k]), sumProductRevenue(products)),
	}, nil
}

// SortProducts orders by revenue descending, then stock code ascending.
func SortProducts(products []domain.ProductMetric) {
	sort.Slice(products, func(i, j int) bool {
		if c := products[i].TotalRevenue.Cmp(products[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return products[i].StockCode < products[j].StockCode
	})
}

// FractionCount returns floor(n * fraction).
func FractionCount(n int, fraction float64) int {
	return int(decimal.NewFromInt(int64(n)).Mul(decimal.NewFromFloat(fraction)).IntPart())
}

func sumProductRevenue(products []domain.ProductMetric) decimal.Decimal {
	total := decimal.Zero
	for i := range products {
		total = total.Add(products[i].TotalRevenue)
	}
	return total
}
