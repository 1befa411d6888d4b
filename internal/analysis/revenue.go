package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
)

// RevenueTrend is the monthly revenue series with its extremes.
type RevenueTrend struct {
	Months []domain.MonthlyRevenue // chronological
	Best   *domain.MonthlyRevenue  // highest revenue, earliest month on ties; nil when empty
	Worst  *domain.MonthlyRevenue  // lowest revenue, earliest month on ties; nil when empty
}

var hundred = decimal.NewFromInt(100)

// MonthlyRevenue groups transactions by calendar month and computes
// month-over-month growth. Only months with at least one transaction appear.
func MonthlyRevenue(txs []domain.CleanedTransaction) RevenueTrend {
	totals := make(map[domain.YearMonth]decimal.Decimal)
	for i := range txs {
		ym := txs[i].YearMonth
		totals[ym] = totals[ym].Add(txs[i].TotalPrice)
	}

	months := make([]domain.MonthlyRevenue, 0, len(totals))
	for ym, rev := range totals {
		months = append(months, domain.MonthlyRevenue{Month: ym, Revenue: rev})
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.Compare(months[j].Month) < 0
	})

	for i := 1; i < len(months); i++ {
		months[i].GrowthRatePercent = growthRate(months[i-1].Revenue, months[i].Revenue)
	}

	trend := RevenueTrend{Months: months}
	for i := range months {
		if trend.Best == nil || months[i].Revenue.GreaterThan(trend.Best.Revenue) {
			trend.Best = &months[i]
		}
		if trend.Worst == nil || months[i].Revenue.LessThan(trend.Worst.Revenue) {
			trend.Worst = &months[i]
		}
	}
	return trend
}

// growthRate is (cur-prev)/prev*100; nil when prev is zero.
func growthRate(prev, cur decimal.Decimal) *float64 {
	if prev.IsZero() {
		return nil
	}
	g := cur.Sub(prev).Div(prev).Mul(hundred).InexactFloat64()
	return &g
}
