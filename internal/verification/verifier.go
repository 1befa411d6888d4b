// Package verification checks that stored run snapshots match a fresh
// recomputation from the source transactions.
package verification

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/reporting"
)

// MoneyPlaces is the precision money is stored at in snapshot tables.
// Recomputed amounts are rounded to it before comparison.
const MoneyPlaces = 4

// FloatTolerance is the tolerance for float64 comparisons.
const FloatTolerance = 1e-7

// FieldDivergence represents a mismatch between stored and replayed values.
type FieldDivergence struct {
	Table    string      // snapshot table
	Key      string      // row key (month, customer id, stock code, country) or "rows"
	Field    string      // field name
	Expected interface{} // stored value
	Actual   interface{} // replayed value
}

func (d FieldDivergence) String() string {
	return fmt.Sprintf("%s[%s].%s: stored=%v replayed=%v", d.Table, d.Key, d.Field, d.Expected, d.Actual)
}

// Report contains the outcome of verifying one run.
type Report struct {
	RunID       string
	RowsChecked int
	Divergences []FieldDivergence
}

// Match reports whether no divergence was found.
func (r *Report) Match() bool {
	return len(r.Divergences) == 0
}

// CompareTables compares stored snapshot tables against replayed ones, row by row.
// Row order is part of the contract, so rows are matched by position.
func CompareTables(stored, replayed reporting.Tables) ([]FieldDivergence, int) {
	var (
		divs    []FieldDivergence
		checked int
	)

	n := compareLen(&divs, "monthly_revenue", len(stored.Monthly), len(replayed.Monthly))
	for i := 0; i < n; i++ {
		s, r := stored.Monthly[i], replayed.Monthly[i]
		key := s.Month.String()
		check(&divs, "monthly_revenue", key, "Month", s.Month, r.Month, s.Month == r.Month)
		checkMoney(&divs, "monthly_revenue", key, "Revenue", s.Revenue, r.Revenue)
		if !floatPtrEquals(s.GrowthRatePercent, r.GrowthRatePercent) {
			divs = append(divs, FieldDivergence{"monthly_revenue", key, "GrowthRatePercent", fmtPtr(s.GrowthRatePercent), fmtPtr(r.GrowthRatePercent)})
		}
	}
	checked += n

	n = compareLen(&divs, "customer_metrics", len(stored.Customers), len(replayed.Customers))
	for i := 0; i < n; i++ {
		s, r := stored.Customers[i], replayed.Customers[i]
		key := s.CustomerID
		check(&divs, "customer_metrics", key, "CustomerID", s.CustomerID, r.CustomerID, s.CustomerID == r.CustomerID)
		check(&divs, "customer_metrics", key, "OrderCount", s.OrderCount, r.OrderCount, s.OrderCount == r.OrderCount)
		checkMoney(&divs, "customer_metrics", key, "TotalRevenue", s.TotalRevenue, r.TotalRevenue)
		check(&divs, "customer_metrics", key, "TotalItems", s.TotalItems, r.TotalItems, s.TotalItems == r.TotalItems)
		checkMoney(&divs, "customer_metrics", key, "AvgOrderValue", s.AvgOrderValue, r.AvgOrderValue)
		check(&divs, "customer_metrics", key, "Segment", s.Segment, r.Segment, s.Segment == r.Segment)
	}
	checked += n

	n = compareLen(&divs, "product_metrics", len(stored.Products), len(replayed.Products))
	for i := 0; i < n; i++ {
		s, r := stored.Products[i], replayed.Products[i]
		key := s.StockCode
		check(&divs, "product_metrics", key, "StockCode", s.StockCode, r.StockCode, s.StockCode == r.StockCode)
		check(&divs, "product_metrics", key, "Description", s.Description, r.Description, s.Description == r.Description)
		check(&divs, "product_metrics", key, "TotalQuantity", s.TotalQuantity, r.TotalQuantity, s.TotalQuantity == r.TotalQuantity)
		checkMoney(&divs, "product_metrics", key, "TotalRevenue", s.TotalRevenue, r.TotalRevenue)
		check(&divs, "product_metrics", key, "OrderCount", s.OrderCount, r.OrderCount, s.OrderCount == r.OrderCount)
	}
	checked += n

	n = compareLen(&divs, "country_metrics", len(stored.Countries), len(replayed.Countries))
	for i := 0; i < n; i++ {
		s, r := stored.Countries[i], replayed.Countries[i]
		key := s.Country
		check(&divs, "country_metrics", key, "Country", s.Country, r.Country, s.Country == r.Country)
		checkMoney(&divs, "country_metrics", key, "TotalRevenue", s.TotalRevenue, r.TotalRevenue)
		check(&divs, "country_metrics", key, "CustomerCount", s.CustomerCount, r.CustomerCount, s.CustomerCount == r.CustomerCount)
		check(&divs, "country_metrics", key, "OrderCount", s.OrderCount, r.OrderCount, s.OrderCount == r.OrderCount)
	}
	checked += n

	return divs, checked
}

// compareLen records a row count mismatch and returns the number of rows
// both sides have.
func compareLen(divs *[]FieldDivergence, table string, stored, replayed int) int {
	if stored != replayed {
		*divs = append(*divs, FieldDivergence{table, "rows", "count", stored, replayed})
	}
	return min(stored, replayed)
}

func check(divs *[]FieldDivergence, table, key, field string, expected, actual interface{}, equal bool) {
	if !equal {
		*divs = append(*divs, FieldDivergence{table, key, field, expected, actual})
	}
}

func checkMoney(divs *[]FieldDivergence, table, key, field string, stored, replayed decimal.Decimal) {
	if !stored.Round(MoneyPlaces).Equal(replayed.Round(MoneyPlaces)) {
		*divs = append(*divs, FieldDivergence{table, key, field, stored.String(), replayed.String()})
	}
}

func floatPtrEquals(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) <= FloatTolerance
}

func fmtPtr(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
