package domain

import "github.com/shopspring/decimal"

// MonthlyRevenue is one row of the revenue time series.
type MonthlyRevenue struct {
	Month             YearMonth
	Revenue           decimal.Decimal // sum of TotalPrice in Month
	GrowthRatePercent *float64        // nil for the first month (undefined)
}

// Segment is a customer value tier.
type Segment string

// Segment values
const (
	SegmentHighValue   Segment = "High-Value"
	SegmentMediumValue Segment = "Medium-Value"
	SegmentLowValue    Segment = "Low-Value"
)

// Segments lists tiers from highest to lowest.
var Segments = []Segment{SegmentHighValue, SegmentMediumValue, SegmentLowValue}

// CustomerMetric aggregates a single customer's purchases.
type CustomerMetric struct {
	CustomerID    string
	OrderCount    int             // distinct invoices
	TotalRevenue  decimal.Decimal // sum of TotalPrice
	TotalItems    int             // sum of Quantity
	AvgOrderValue decimal.Decimal // TotalRevenue / OrderCount
	Segment       Segment
}

// ProductMetric aggregates a single stock code.
type ProductMetric struct {
	StockCode     string
	Description   string // first observed description
	TotalQuantity int
	TotalRevenue  decimal.Decimal
	OrderCount    int // distinct invoices
}

// CountryMetric aggregates a single country.
type CountryMetric struct {
	Country       string
	TotalRevenue  decimal.Decimal
	CustomerCount int // distinct customers
	OrderCount    int // distinct invoices
}
