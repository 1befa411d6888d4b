package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-sales-lab/internal/domain"
)

func TestSegmentCustomers_ThreeCustomers(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("A", "I1", "60"),
		mkTx("A", "I2", "40"),
		mkTx("B", "I3", "500"),
		mkTx("C", "I4", "900"),
	}

	seg, err := SegmentCustomers(txs)
	require.NoError(t, err)

	assertDecEqual(t, "300", seg.Thresholds.P25)
	assertDecEqual(t, "700", seg.Thresholds.P75)

	require.Len(t, seg.Customers, 3)
	byID := map[string]domain.CustomerMetric{}
	for _, c := range seg.Customers {
		byID[c.CustomerID] = c
	}
	assert.Equal(t, domain.SegmentLowValue, byID["A"].Segment)
	assert.Equal(t, domain.SegmentMediumValue, byID["B"].Segment)
	assert.Equal(t, domain.SegmentHighValue, byID["C"].Segment)

	assert.Equal(t, 2, byID["A"].OrderCount)
	assertDecEqual(t, "50", byID["A"].AvgOrderValue)

	assert.InDelta(t, 60.0, seg.HighValueSharePct, 1e-9)

	require.Len(t, seg.Segments, 3)
	assert.Equal(t, domain.SegmentHighValue, seg.Segments[0].Segment)
	assert.Equal(t, domain.SegmentMediumValue, seg.Segments[1].Segment)
	assert.Equal(t, domain.SegmentLowValue, seg.Segments[2].Segment)
	for _, s := range seg.Segments {
		assert.Equal(t, 1, s.CustomerCount, s.Segment)
	}
}

func TestSegmentCustomers_OrderedByID(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("17850", "I1", "10"),
		mkTx("12346", "I2", "10"),
		mkTx("14000", "I3", "10"),
	}

	seg, err := SegmentCustomers(txs)
	require.NoError(t, err)
	ids := []string{seg.Customers[0].CustomerID, seg.Customers[1].CustomerID, seg.Customers[2].CustomerID}
	assert.Equal(t, []string{"12346", "14000", "17850"}, ids)
}

func TestSegmentCustomers_SingleCustomerIsLowValue(t *testing.T) {
	seg, err := SegmentCustomers([]domain.CleanedTransaction{mkTx("A", "I1", "250")})
	require.NoError(t, err)

	require.Len(t, seg.Customers, 1)
	assert.Equal(t, domain.SegmentLowValue, seg.Customers[0].Segment)
	assertDecEqual(t, "250", seg.Thresholds.P25)
	assertDecEqual(t, "250", seg.Thresholds.P75)
	assert.Zero(t, seg.HighValueSharePct)
}

func TestSegmentCustomers_OrderCountUsesDistinctInvoices(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("A", "I1", "10", withStock("S1", "one"), withQty(2)),
		mkTx("A", "I1", "20", withStock("S2", "two"), withQty(3)),
		mkTx("A", "I2", "30", withStock("S1", "one")),
	}

	seg, err := SegmentCustomers(txs)
	require.NoError(t, err)
	c := seg.Customers[0]
	assert.Equal(t, 2, c.OrderCount)
	assert.Equal(t, 6, c.TotalItems)
	assertDecEqual(t, "60", c.TotalRevenue)
	assertDecEqual(t, "30", c.AvgOrderValue)
}

func TestSegmentCustomers_Partition(t *testing.T) {
	var txs []domain.CleanedTransaction
	amounts := []string{"5", "17.5", "120", "33", "8.25", "990", "41", "41", "300", "2"}
	for i, a := range amounts {
		txs = append(txs, mkTx(string(rune('A'+i)), "I"+a, a))
	}

	seg, err := SegmentCustomers(txs)
	require.NoError(t, err)

	count := 0
	revenue := dec("0")
	for _, s := range seg.Segments {
		count += s.CustomerCount
		revenue = revenue.Add(s.TotalRevenue)
	}
	assert.Equal(t, len(seg.Customers), count)
	assert.True(t, revenue.Equal(domain.TotalRevenue(txs)), "segment revenue %s != total", revenue)

	for _, c := range seg.Customers {
		assert.Equal(t, seg.Thresholds.Classify(c.TotalRevenue), c.Segment)
	}
}

func TestSegmentCustomers_OrderIndependent(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("A", "I1", "10"),
		mkTx("B", "I2", "200"),
		mkTx("C", "I3", "35"),
		mkTx("A", "I4", "70"),
		mkTx("D", "I5", "1000"),
	}
	reversed := make([]domain.CleanedTransaction, len(txs))
	for i := range txs {
		reversed[len(txs)-1-i] = txs[i]
	}

	a, err := SegmentCustomers(txs)
	require.NoError(t, err)
	b, err := SegmentCustomers(reversed)
	require.NoError(t, err)

	require.Len(t, b.Customers, len(a.Customers))
	for i := range a.Customers {
		assert.Equal(t, a.Customers[i].CustomerID, b.Customers[i].CustomerID)
		assert.Equal(t, a.Customers[i].Segment, b.Customers[i].Segment)
		assert.True(t, a.Customers[i].TotalRevenue.Equal(b.Customers[i].TotalRevenue))
	}
	assert.True(t, a.Thresholds.P25.Equal(b.Thresholds.P25))
	assert.True(t, a.Thresholds.P75.Equal(b.Thresholds.P75))
}

func TestSegmentCustomers_Empty(t *testing.T) {
	_, err := SegmentCustomers(nil)
	assert.True(t, errors.Is(err, ErrEmptyDataset))
}

func TestThresholds_Classify(t *testing.T) {
	th := Thresholds{P25: dec("300"), P75: dec("700")}
	tests := []struct {
		revenue string
		want    domain.Segment
	}{
		{"700.01", domain.SegmentHighValue},
		{"700", domain.SegmentMediumValue},
		{"300.01", domain.SegmentMediumValue},
		{"300", domain.SegmentLowValue},
		{"0.01", domain.SegmentLowValue},
	}
	for _, tt := range tests {
		if got := th.Classify(dec(tt.revenue)); got != tt.want {
			t.Errorf("Classify(%s) = %s, want %s", tt.revenue, got, tt.want)
		}
	}
}
