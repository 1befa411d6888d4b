// Package recommendation turns segment and product metrics into fixed-shape
// business projections. Every multiplier lives in Policy.
package recommendation

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrInvalidPolicy is returned for out-of-range multipliers.
var ErrInvalidPolicy = errors.New("invalid recommendation policy")

// Policy holds the projection multipliers. Fractions are in [0, 1];
// rates are non-negative and may exceed 1.
type Policy struct {
	RetentionUplift           float64 `yaml:"retention_uplift" envconfig:"RETENTION_UPLIFT"`
	UpsellAOVIncrease         float64 `yaml:"upsell_aov_increase" envconfig:"UPSELL_AOV_INCREASE"`
	UpsellRevenueGain         float64 `yaml:"upsell_revenue_gain" envconfig:"UPSELL_REVENUE_GAIN"`
	LowPerformerFraction      float64 `yaml:"low_performer_fraction" envconfig:"LOW_PERFORMER_FRACTION"`
	DiscontinueFraction       float64 `yaml:"discontinue_fraction" envconfig:"DISCONTINUE_FRACTION"`
	InventoryTurnoverGain     float64 `yaml:"inventory_turnover_gain" envconfig:"INVENTORY_TURNOVER_GAIN"`
	TotalImprovementPotential float64 `yaml:"total_improvement_potential" envconfig:"TOTAL_IMPROVEMENT_POTENTIAL"`
}

// DefaultPolicy returns the standard multipliers.
// The inventory report covers the bottom 20% of products while the
// discontinue list covers only the bottom 10%.
func DefaultPolicy() Policy {
	return Policy{
		RetentionUplift:           0.15,
		UpsellAOVIncrease:         0.20,
		UpsellRevenueGain:         0.20,
		LowPerformerFraction:      0.20,
		DiscontinueFraction:       0.10,
		InventoryTurnoverGain:     0.25,
		TotalImprovementPotential: 0.22,
	}
}

// Validate checks every multiplier.
func (p Policy) Validate() error {
	fractions := []struct {
		name  string
		value float64
	}{
		{"low_performer_fraction", p.LowPerformerFraction},
		{"discontinue_fraction", p.DiscontinueFraction},
	}
	for _, f := range fractions {
		if math.IsNaN(f.value) || f.value < 0 || f.value > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", ErrInvalidPolicy, f.name, f.value)
		}
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"retention_uplift", p.RetentionUplift},
		{"upsell_aov_increase", p.UpsellAOVIncrease},
		{"upsell_revenue_gain", p.UpsellRevenueGain},
		{"inventory_turnover_gain", p.InventoryTurnoverGain},
		{"total_improvement_potential", p.TotalImprovementPotential},
	}
	for _, r := range rates {
		if math.IsNaN(r.value) || math.IsInf(r.value, 0) || r.value < 0 {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", ErrInvalidPolicy, r.name, r.value)
		}
	}
	return nil
}

// LoadPolicyFile overlays a YAML policy file on DefaultPolicy.
// Keys absent from the file keep their default.
func LoadPolicyFile(path string) (Policy, error) {
	p := DefaultPolicy()

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &p); err != nil {
		return p, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}
