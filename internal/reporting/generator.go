package reporting

import (
	"errors"
	"time"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/cleaning"
	"retail-sales-lab/internal/domain"
)

// ErrIncompleteInput is returned when Generate is called without analysis results.
var ErrIncompleteInput = errors.New("report input incomplete")

// Input is everything a report is built from.
type Input struct {
	RunID           string
	Stats           cleaning.Stats
	Transactions    []domain.CleanedTransaction
	Results         *analysis.Results
	Recommendations *domain.Recommendations
}

// Generator produces reports from analysis output.
type Generator struct {
	now func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate assembles a Report. The listings are copies, so the report
// stays valid if the caller reuses the analysis slices.
func (g *Generator) Generate(in Input) (*Report, error) {
	if in.Results == nil || in.Results.Customers == nil || in.Results.Products == nil || in.Recommendations == nil {
		return nil, ErrIncompleteInput
	}
	res := in.Results
	months := append([]domain.MonthlyRevenue(nil), res.Revenue.Months...)

	return &Report{
		GeneratedAt: g.now(),
		RunID:       in.RunID,
		DataSummary: summarize(in.Stats, in.Transactions),
		Revenue: RevenueSection{
			Months: months,
			Best:   findMonth(months, res.Revenue.Best),
			Worst:  findMonth(months, res.Revenue.Worst),
		},
		Customers: CustomerSection{
			Thresholds:        res.Customers.Thresholds,
			Segments:          append([]analysis.SegmentSummary(nil), res.Customers.Segments...),
			HighValueSharePct: res.Customers.HighValueSharePct,
		},
		Products: ProductSection{
			TotalProducts: len(res.Products.Products),
			TopCount:      res.Products.TopCount,
			ParetoPct:     res.Products.ParetoPct,
			Top:           append([]domain.ProductMetric(nil), res.Products.Top(TopProducts)...),
			Bottom:        append([]domain.ProductMetric(nil), res.Products.Bottom(BottomProducts)...),
		},
		Countries: CountrySection{
			TotalCountries: len(res.Countries),
			Top:            append([]domain.CountryMetric(nil), res.Countries[:min(TopCountries, len(res.Countries))]...),
		},
		Recommendations: *in.Recommendations,
	}, nil
}

// findMonth returns the entry of months for the same month as m, or nil.
func findMonth(months []domain.MonthlyRevenue, m *domain.MonthlyRevenue) *domain.MonthlyRevenue {
	if m == nil {
		return nil
	}
	for i := range months {
		if months[i].Month == m.Month {
			return &months[i]
		}
	}
	return nil
}

// summarize computes dataset-level counts over the cleaned set.
func summarize(stats cleaning.Stats, txs []domain.CleanedTransaction) DataSummary {
	ds := DataSummary{
		RawRows:                    stats.InputRows,
		CleanedRows:                stats.OutputRows,
		DroppedMissingCustomer:     stats.DroppedMissingCustomer,
		DroppedNonPositiveQuantity: stats.DroppedNonPositiveQuantity,
		DroppedNonPositivePrice:    stats.DroppedNonPositivePrice,
		TotalRevenue:               domain.TotalRevenue(txs),
	}

	customers := make(map[string]struct{})
	products := make(map[string]struct{})
	countries := make(map[string]struct{})
	invoices := make(map[string]struct{})

	for i := range txs {
		tx := &txs[i]
		customers[tx.CustomerID] = struct{}{}
		products[tx.StockCode] = struct{}{}
		countries[tx.Country] = struct{}{}
		invoices[tx.InvoiceNo] = struct{}{}

		if ds.PeriodStart.IsZero() || tx.InvoiceDate.Before(ds.PeriodStart) {
			ds.PeriodStart = tx.InvoiceDate
		}
		if tx.InvoiceDate.After(ds.PeriodEnd) {
			ds.PeriodEnd = tx.InvoiceDate
		}
	}

	ds.Customers = len(customers)
	ds.Products = len(products)
	ds.Countries = len(countries)
	ds.Invoices = len(invoices)
	return ds
}
