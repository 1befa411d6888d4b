package analysis

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Percentile returns the p-th percentile (0 <= p <= 1) of values using linear
// interpolation between closest ranks: idx = p*(n-1). Values need not be sorted.
// Returns zero for empty input.
func Percentile(values []decimal.Decimal, p float64) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return percentileSorted(sorted, p)
}

func percentileSorted(sorted []decimal.Decimal, p float64) decimal.Decimal {
	n := len(sorted)
	if n == 0 {
		return decimal.Zero
	}
	if n == 1 {
		return sorted[0]
	}

	// Index for percentile (0-based, continuous)
	idx := decimal.NewFromFloat(p).Mul(decimal.NewFromInt(int64(n - 1)))
	lower := int(idx.IntPart())
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	// Linear interpolation
	frac := idx.Sub(decimal.NewFromInt(int64(lower)))
	return sorted[lower].Add(frac.Mul(sorted[upper].Sub(sorted[lower])))
}

// percentOf returns part/whole*100 as float64, or 0 when whole is zero.
func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}
