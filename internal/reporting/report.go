package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/domain"
)

// Listing sizes used by the report.
const (
	TopProducts    = 10
	BottomProducts = 10
	TopCountries   = 10
)

// Report represents one analysis run in presentation form.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string

	DataSummary DataSummary

	Revenue   RevenueSection
	Customers CustomerSection
	Products  ProductSection
	Countries CountrySection

	Recommendations domain.Recommendations
}

// DataSummary describes the input and what cleaning removed.
type DataSummary struct {
	RawRows                    int
	CleanedRows                int
	DroppedMissingCustomer     int
	DroppedNonPositiveQuantity int
	DroppedNonPositivePrice    int

	Customers int
	Products  int
	Countries int
	Invoices  int

	TotalRevenue decimal.Decimal
	PeriodStart  time.Time // earliest InvoiceDate
	PeriodEnd    time.Time // latest InvoiceDate
}

// RevenueSection is the monthly series with its extremes.
type RevenueSection struct {
	Months []domain.MonthlyRevenue
	Best   *domain.MonthlyRevenue
	Worst  *domain.MonthlyRevenue
}

// CustomerSection summarizes segmentation.
type CustomerSection struct {
	Thresholds        analysis.Thresholds
	Segments          []analysis.SegmentSummary
	HighValueSharePct float64
}

// ProductSection holds the ranking extremes and the Pareto share.
type ProductSection struct {
	TotalProducts int
	TopCount      int
	ParetoPct     float64
	Top           []domain.ProductMetric
	Bottom        []domain.ProductMetric // ranking order, lowest revenue last
}

// CountrySection holds the leading countries by revenue.
type CountrySection struct {
	TotalCountries int
	Top            []domain.CountryMetric
}
