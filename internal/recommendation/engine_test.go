package recommendation

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/domain"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func tx(customer, invoice, stock, total string) domain.CleanedTransaction {
	at := time.Date(2011, 5, 2, 10, 0, 0, 0, time.UTC)
	return domain.CleanedTransaction{
		InvoiceNo:   invoice,
		StockCode:   stock,
		Description: "item " + stock,
		Quantity:    1,
		InvoiceDate: at,
		UnitPrice:   dec(total),
		CustomerID:  customer,
		Country:     "United Kingdom",
		TotalPrice:  dec(total),
		YearMonth:   domain.YearMonthOf(at),
	}
}

func generate(t *testing.T, policy Policy, txs []domain.CleanedTransaction) *domain.Recommendations {
	t.Helper()
	customers, err := analysis.SegmentCustomers(txs)
	require.NoError(t, err)
	products, err := analysis.AnalyzeProducts(txs)
	require.NoError(t, err)

	engine, err := NewEngine(policy)
	require.NoError(t, err)
	recs, err := engine.Generate(txs, customers, products)
	require.NoError(t, err)
	return recs
}

func TestGenerate_ThreeCustomers(t *testing.T) {
	txs := []domain.CleanedTransaction{
		tx("A", "I1", "S1", "100"),
		tx("B", "I2", "S2", "500"),
		tx("C", "I3", "S3", "900"),
	}

	recs := generate(t, DefaultPolicy(), txs)

	assert.Equal(t, 1, recs.Retention.HighValueCustomers)
	assert.True(t, recs.Retention.RevenueAtRisk.Equal(dec("900")))
	assert.True(t, recs.Retention.ProjectedGain.Equal(dec("135")), "got %s", recs.Retention.ProjectedGain)

	assert.Equal(t, 1, recs.Upsell.MediumValueCustomers)
	assert.True(t, recs.Upsell.CurrentAOV.Equal(dec("500")))
	assert.True(t, recs.Upsell.TargetAOV.Equal(dec("600")), "got %s", recs.Upsell.TargetAOV)
	assert.True(t, recs.Upsell.ProjectedGain.Equal(dec("100")))

	assert.True(t, recs.Overall.CurrentRevenue.Equal(dec("1500")))
	assert.True(t, recs.Overall.ProjectedIncrease.Equal(dec("330")), "got %s", recs.Overall.ProjectedIncrease)

	// Three products: floor(0.6) and floor(0.3) are both zero.
	assert.Equal(t, 0, recs.Inventory.LowPerformerCount)
	assert.Empty(t, recs.Inventory.DiscontinueCodes)
	assert.Zero(t, recs.Inventory.LowPerformerSharePct)
	assert.InDelta(t, 25.0, recs.Inventory.ExpectedTurnoverGainPct, 1e-9)
}

func TestGenerate_InventoryAsymmetry(t *testing.T) {
	var txs []domain.CleanedTransaction
	// Product P01 earns 200, P02 190, ..., P20 10.
	for i := 1; i <= 20; i++ {
		code := fmt.Sprintf("P%02d", i)
		txs = append(txs, tx("C1", "I"+code, code, fmt.Sprintf("%d", (21-i)*10)))
	}

	recs := generate(t, DefaultPolicy(), txs)
	inv := recs.Inventory

	assert.Equal(t, 4, inv.LowPerformerCount)
	assert.True(t, inv.LowPerformerRevenue.Equal(dec("100")), "got %s", inv.LowPerformerRevenue)
	assert.InDelta(t, 100.0/2100.0*100, inv.LowPerformerSharePct, 1e-9)

	// Report covers 20%, discontinue list only 10%.
	assert.Equal(t, []string{"P19", "P20"}, inv.DiscontinueCodes)
	assert.Less(t, len(inv.DiscontinueCodes), inv.LowPerformerCount)
}

func TestGenerate_EmptyMediumSegment(t *testing.T) {
	// Two customers: P25 = 125, P75 = 175. A is Low, B is High, Medium is empty.
	txs := []domain.CleanedTransaction{
		tx("A", "I1", "S1", "100"),
		tx("B", "I2", "S2", "200"),
	}

	recs := generate(t, DefaultPolicy(), txs)
	assert.Equal(t, 0, recs.Upsell.MediumValueCustomers)
	assert.True(t, recs.Upsell.CurrentAOV.IsZero())
	assert.True(t, recs.Upsell.TargetAOV.IsZero())
	assert.True(t, recs.Upsell.ProjectedGain.IsZero())
}

func TestGenerate_CustomPolicy(t *testing.T) {
	txs := []domain.CleanedTransaction{
		tx("A", "I1", "S1", "100"),
		tx("B", "I2", "S2", "500"),
		tx("C", "I3", "S3", "900"),
	}
	p := DefaultPolicy()
	p.RetentionUplift = 0.5
	p.TotalImprovementPotential = 0

	recs := generate(t, p, txs)
	assert.True(t, recs.Retention.ProjectedGain.Equal(dec("450")))
	assert.True(t, recs.Overall.ProjectedIncrease.IsZero())
}

func TestGenerate_Empty(t *testing.T) {
	engine, err := NewEngine(DefaultPolicy())
	require.NoError(t, err)

	_, err = engine.Generate(nil, &analysis.CustomerSegmentation{}, &analysis.ProductPerformance{})
	assert.ErrorIs(t, err, analysis.ErrEmptyDataset)
}

func TestNewEngine_RejectsInvalidPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.DiscontinueFraction = 1.5
	_, err := NewEngine(p)
	assert.ErrorIs(t, err, ErrInvalidPolicy)
}
