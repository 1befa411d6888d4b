package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
)

// Segment thresholds as percentiles of customer total revenue.
const (
	HighValuePercentile   = 0.75
	MediumValuePercentile = 0.25
)

// Thresholds are the revenue cut points computed once over all customers.
type Thresholds struct {
	P25 decimal.Decimal
	P75 decimal.Decimal
}

// Classify assigns a segment from total revenue.
// Strictly above P75 is High-Value, strictly above P25 is Medium-Value.
func (th Thresholds) Classify(revenue decimal.Decimal) domain.Segment {
	switch {
	case revenue.GreaterThan(th.P75):
		return domain.SegmentHighValue
	case revenue.GreaterThan(th.P25):
		return domain.SegmentMediumValue
	default:
		return domain.SegmentLowValue
	}
}

// SegmentSummary aggregates one segment.
type SegmentSummary struct {
	Segment           domain.Segment
	CustomerCount     int
	TotalRevenue      decimal.Decimal
	MeanRevenue       decimal.Decimal // zero for an empty segment
	MeanAvgOrderValue decimal.Decimal // zero for an empty segment
}

// CustomerSegmentation is the result of SegmentCustomers.
type CustomerSegmentation struct {
	Customers         []domain.CustomerMetric // ordered by CustomerID
	Thresholds        Thresholds
	Segments          []SegmentSummary // High, Medium, Low
	HighValueSharePct float64          // High-Value revenue as a percent of all customer revenue
}

// Summary returns the summary for seg.
func (cs *CustomerSegmentation) Summary(seg domain.Segment) SegmentSummary {
	for _, s := range cs.Segments {
		if s.Segment == seg {
			return s
		}
	}
	return SegmentSummary{Segment: seg}
}

type customerAcc struct {
	revenue  decimal.Decimal
	items    int
	invoices map[string]struct{}
}

// SegmentCustomers aggregates per-customer metrics and tiers customers by
// total revenue against the population's 25th and 75th percentiles.
func SegmentCustomers(txs []domain.CleanedTransaction) (*CustomerSegmentation, error) {
	if len(txs) == 0 {
		return nil, ErrEmptyDataset
	}

	accs := make(map[string]*customerAcc)
	for i := range txs {
		tx := &txs[i]
		acc, ok := accs[tx.CustomerID]
		if !ok {
			acc = &customerAcc{invoices: make(map[string]struct{})}
			accs[tx.CustomerID] = acc
		}
		acc.revenue = acc.revenue.Add(tx.TotalPrice)
		acc.items += tx.Quantity
		acc.invoices[tx.InvoiceNo] = struct{}{}
	}

	customers := make([]domain.CustomerMetric, 0, len(accs))
	revenues := make([]decimal.Decimal, 0, len(accs))
	for id, acc := range accs {
		orders := len(acc.invoices)
		customers = append(customers, domain.CustomerMetric{
			CustomerID:    id,
			OrderCount:    orders,
			TotalRevenue:  acc.revenue,
			TotalItems:    acc.items,
			AvgOrderValue: acc.revenue.Div(decimal.NewFromInt(int64(orders))),
		})
		revenues = append(revenues, acc.revenue)
	}
	sort.Slice(customers, func(i, j int) bool {
		return customers[i].CustomerID < customers[j].CustomerID
	})

	th := Thresholds{
		P25: Percentile(revenues, MediumValuePercentile),
		P75: Percentile(revenues, HighValuePercentile),
	}

	type segAcc struct {
		count   int
		revenue decimal.Decimal
		aov     decimal.Decimal
	}
	bySeg := make(map[domain.Segment]*segAcc, len(domain.Segments))
	for _, s := range domain.Segments {
		bySeg[s] = &segAcc{}
	}

	total := decimal.Zero
	for i := range customers {
		c := &customers[i]
		c.Segment = th.Classify(c.TotalRevenue)
		sa := bySeg[c.Segment]
		sa.count++
		sa.revenue = sa.revenue.Add(c.TotalRevenue)
		sa.aov = sa.aov.Add(c.AvgOrderValue)
		total = total.Add(c.TotalRevenue)
	}

	summaries := make([]SegmentSummary, 0, len(domain.Segments))
	for _, s := range domain.Segments {
		sa := bySeg[s]
		sum := SegmentSummary{Segment: s, CustomerCount: sa.count, TotalRevenue: sa.revenue}
		if sa.count > 0 {
			n := decimal.NewFromInt(int64(sa.count))
			sum.MeanRevenue = sa.revenue.Div(n)
			sum.MeanAvgOrderValue = sa.aov.Div(n)
		}
		summaries = append(summaries, sum)
	}

	return &CustomerSegmentation{
		Customers:         customers,
		Thresholds:        th,
		Segments:          summaries,
		HighValueSharePct: percentOf(bySeg[domain.SegmentHighValue].revenue, total),
	}, nil
}
