package domain

import "github.com/shopspring/decimal"

// Recommendations is the terminal report of a run: fixed-shape projections,
// each with an observed baseline and a projected figure.
type Recommendations struct {
	Retention RetentionRecommendation
	Upsell    UpsellRecommendation
	Inventory InventoryRecommendation
	Overall   OverallImprovement
}

// RetentionRecommendation targets High-Value customers.
type RetentionRecommendation struct {
	HighValueCustomers int
	RevenueAtRisk      decimal.Decimal // baseline: High-Value segment revenue
	UpliftRate         float64
	ProjectedGain      decimal.Decimal // RevenueAtRisk * UpliftRate
}

// UpsellRecommendation targets Medium-Value customers.
type UpsellRecommendation struct {
	MediumValueCustomers int
	CurrentAOV           decimal.Decimal // baseline: mean AvgOrderValue of the segment
	TargetAOVIncrease    float64
	TargetAOV            decimal.Decimal // CurrentAOV * (1 + TargetAOVIncrease)
	SegmentRevenue       decimal.Decimal
	RevenueGainRate      float64
	ProjectedGain        decimal.Decimal // SegmentRevenue * RevenueGainRate
}

// InventoryRecommendation targets the low end of the product ranking.
type InventoryRecommendation struct {
	LowPerformerFraction float64
	LowPerformerCount    int
	LowPerformerRevenue  decimal.Decimal
	LowPerformerSharePct float64 // share of total product revenue, percent

	DiscontinueFraction float64
	DiscontinueCodes    []string // bottom products, lowest revenue last

	ExpectedTurnoverGainPct float64
}

// OverallImprovement is the aggregate revenue projection.
type OverallImprovement struct {
	CurrentRevenue    decimal.Decimal // baseline: sum of TotalPrice
	ImprovementRate   float64
	ProjectedIncrease decimal.Decimal // CurrentRevenue * ImprovementRate
}
