package analysis

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-sales-lab/internal/domain"
)

func TestAnalyzeProducts_Pareto(t *testing.T) {
	var txs []domain.CleanedTransaction
	txs = append(txs,
		mkTx("C1", "I1", "450", withStock("P01", "top one")),
		mkTx("C1", "I2", "450", withStock("P02", "top two")),
	)
	for i := 3; i <= 10; i++ {
		code := fmt.Sprintf("P%02d", i)
		txs = append(txs, mkTx("C2", "J"+code, "12.5", withStock(code, "tail")))
	}

	pp, err := AnalyzeProducts(txs)
	require.NoError(t, err)
	require.Len(t, pp.Products, 10)
	assert.Equal(t, 2, pp.TopCount)
	assert.InDelta(t, 90.0, pp.ParetoPct, 1e-9)
}

func TestAnalyzeProducts_ParetoFiveProducts(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("C1", "I1", "10", withStock("A", "a")),
		mkTx("C1", "I2", "20", withStock("B", "b")),
		mkTx("C2", "I3", "30", withStock("C", "c")),
		mkTx("C2", "I4", "40", withStock("D", "d")),
		mkTx("C3", "I5", "900", withStock("E", "e")),
	}

	pp, err := AnalyzeProducts(txs)
	require.NoError(t, err)
	assert.Equal(t, 1, pp.TopCount)
	assert.Equal(t, "E", pp.Products[0].StockCode)
	assert.InDelta(t, 90.0, pp.ParetoPct, 1e-9)
}

func TestAnalyzeProducts_Partition(t *testing.T) {
	var txs []domain.CleanedTransaction
	for i := 0; i < 40; i++ {
		code := fmt.Sprintf("S%d", i%7)
		txs = append(txs, mkTx(
			fmt.Sprintf("C%d", i%5),
			fmt.Sprintf("I%d", i/3),
			fmt.Sprintf("%d.%02d", 1+i%9, (i*37)%100),
			withStock(code, "desc "+code),
			withQty(1+i%4),
		))
	}

	pp, err := AnalyzeProducts(txs)
	require.NoError(t, err)

	revenue := decimal.Zero
	quantity := 0
	for _, p := range pp.Products {
		revenue = revenue.Add(p.TotalRevenue)
		quantity += p.TotalQuantity
	}

	wantQty := 0
	for _, tx := range txs {
		wantQty += tx.Quantity
	}
	assertDecEqual(t, domain.TotalRevenue(txs).String(), revenue)
	assert.Equal(t, wantQty, quantity)
	assert.Len(t, pp.Products, 7)
}

func TestAnalyzeProducts_FewerThanFive(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("C1", "I1", "10", withStock("A", "a")),
		mkTx("C1", "I2", "20", withStock("B", "b")),
		mkTx("C1", "I3", "30", withStock("C", "c")),
	}

	pp, err := AnalyzeProducts(txs)
	require.NoError(t, err)
	assert.Equal(t, 0, pp.TopCount)
	assert.Zero(t, pp.ParetoPct)
}

func TestAnalyzeProducts_Aggregation(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("C1", "I1", "10", withStock("85123A", "WHITE HANGING HEART"), withQty(4)),
		mkTx("C2", "I2", "5", withStock("85123A", "CREAM HANGING HEART"), withQty(2)),
		mkTx("C2", "I2", "7.5", withStock("85123A", "WHITE HANGING HEART"), withQty(3)),
	}

	pp, err := AnalyzeProducts(txs)
	require.NoError(t, err)
	require.Len(t, pp.Products, 1)

	p := pp.Products[0]
	assert.Equal(t, "WHITE HANGING HEART", p.Description)
	assert.Equal(t, 9, p.TotalQuantity)
	assertDecEqual(t, "22.5", p.TotalRevenue)
	assert.Equal(t, 2, p.OrderCount)
}

func TestAnalyzeProducts_OrderingAndTies(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("C1", "I1", "50", withStock("B", "b")),
		mkTx("C1", "I2", "80", withStock("Z", "z")),
		mkTx("C1", "I3", "50", withStock("A", "a")),
		mkTx("C1", "I4", "5", withStock("M", "m")),
	}

	pp, err := AnalyzeProducts(txs)
	require.NoError(t, err)

	var codes []string
	for _, p := range pp.Products {
		codes = append(codes, p.StockCode)
	}
	assert.Equal(t, []string{"Z", "A", "B", "M"}, codes)

	assert.Equal(t, []string{"Z", "A"}, stockCodes(pp.Top(2)))
	assert.Equal(t, []string{"B", "M"}, stockCodes(pp.Bottom(2)))
	assert.Len(t, pp.Top(10), 4)
	assert.Len(t, pp.Bottom(10), 4)
}

func TestAnalyzeProducts_Empty(t *testing.T) {
	_, err := AnalyzeProducts(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func stockCodes(ps []domain.ProductMetric) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.StockCode
	}
	return out
}
