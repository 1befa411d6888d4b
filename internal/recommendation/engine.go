package recommendation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/domain"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Engine produces recommendations under a fixed policy.
type Engine struct {
	policy Policy
}

// NewEngine validates policy and returns an engine.
func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

// Policy returns the engine's multipliers.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Generate derives the four recommendations. customers and products must
// have been computed over txs.
func (e *Engine) Generate(
	txs []domain.CleanedTransaction,
	customers *analysis.CustomerSegmentation,
	products *analysis.ProductPerformance,
) (*domain.Recommendations, error) {
	if len(txs) == 0 {
		return nil, analysis.ErrEmptyDataset
	}
	if customers == nil || products == nil {
		return nil, fmt.Errorf("generate recommendations: missing segment or product metrics")
	}

	return &domain.Recommendations{
		Retention: e.retention(customers),
		Upsell:    e.upsell(customers),
		Inventory: e.inventory(products),
		Overall:   e.overall(txs),
	}, nil
}

func (e *Engine) retention(cs *analysis.CustomerSegmentation) domain.RetentionRecommendation {
	high := cs.Summary(domain.SegmentHighValue)
	return domain.RetentionRecommendation{
		HighValueCustomers: high.CustomerCount,
		RevenueAtRisk:      high.TotalRevenue,
		UpliftRate:         e.policy.RetentionUplift,
		ProjectedGain:      high.TotalRevenue.Mul(rate(e.policy.RetentionUplift)),
	}
}

func (e *Engine) upsell(cs *analysis.CustomerSegmentation) domain.UpsellRecommendation {
	medium := cs.Summary(domain.SegmentMediumValue)
	return domain.UpsellRecommendation{
		MediumValueCustomers: medium.CustomerCount,
		CurrentAOV:           medium.MeanAvgOrderValue,
		TargetAOVIncrease:    e.policy.UpsellAOVIncrease,
		TargetAOV:            medium.MeanAvgOrderValue.Mul(one.Add(rate(e.policy.UpsellAOVIncrease))),
		SegmentRevenue:       medium.TotalRevenue,
		RevenueGainRate:      e.policy.UpsellRevenueGain,
		ProjectedGain:        medium.TotalRevenue.Mul(rate(e.policy.UpsellRevenueGain)),
	}
}

func (e *Engine) inventory(pp *analysis.ProductPerformance) domain.InventoryRecommendation {
	n := len(pp.Products)

	lowCount := analysis.FractionCount(n, e.policy.LowPerformerFraction)
	lowRevenue := decimal.Zero
	for _, p := range pp.Bottom(lowCount) {
		lowRevenue = lowRevenue.Add(p.TotalRevenue)
	}
	total := decimal.Zero
	for _, p := range pp.Products {
		total = total.Add(p.TotalRevenue)
	}
	share := 0.0
	if !total.IsZero() {
		share = lowRevenue.Div(total).Mul(hundred).InexactFloat64()
	}

	discontinue := pp.Bottom(analysis.FractionCount(n, e.policy.DiscontinueFraction))
	codes := make([]string, len(discontinue))
	for i, p := range discontinue {
		codes[i] = p.StockCode
	}

	return domain.InventoryRecommendation{
		LowPerformerFraction:    e.policy.LowPerformerFraction,
		LowPerformerCount:       lowCount,
		LowPerformerRevenue:     lowRevenue,
		LowPerformerSharePct:    share,
		DiscontinueFraction:     e.policy.DiscontinueFraction,
		DiscontinueCodes:        codes,
		ExpectedTurnoverGainPct: e.policy.InventoryTurnoverGain * 100,
	}
}

func (e *Engine) overall(txs []domain.CleanedTransaction) domain.OverallImprovement {
	current := domain.TotalRevenue(txs)
	return domain.OverallImprovement{
		CurrentRevenue:    current,
		ImprovementRate:   e.policy.TotalImprovementPotential,
		ProjectedIncrease: current.Mul(rate(e.policy.TotalImprovementPotential)),
	}
}

func rate(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
