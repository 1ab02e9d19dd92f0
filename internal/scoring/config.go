package scoring

import (
	"fmt"
	"math"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// FeatureSpec binds a feature name to its scoring direction
type FeatureSpec struct {
	Name      contracts.Feature
	Direction Direction
}

// CategorySpec lists a category's member features and its weight in the
// composite score
type CategorySpec struct {
	Category contracts.Category
	Weight   float64
	Features []FeatureSpec
}

// Config is the immutable scoring configuration passed into the Scorer at
// call time. Nothing in the scorer reads process-wide state, so tests can
// run alternate weight sets side by side.
type Config struct {
	Categories []CategorySpec

	// Winsorization band applied to every feature column before ranking
	WinsorizeLowerPct float64
	WinsorizeUpperPct float64
}

// DefaultConfig returns the production category/feature/weight mapping
func DefaultConfig() Config {
	return Config{
		WinsorizeLowerPct: 1,
		WinsorizeUpperPct: 99,
		Categories: []CategorySpec{
			{
				Category: contracts.CategoryFM,
				Weight:   0.30,
				Features: []FeatureSpec{
					{Name: contracts.FeatureRevYoY, Direction: HigherIsBetter},
					{Name: contracts.FeatureGMDelta, Direction: HigherIsBetter},
					{Name: contracts.FeatureOMDelta, Direction: HigherIsBetter},
					{Name: contracts.FeatureFCFDelta, Direction: HigherIsBetter},
				},
			},
			{
				Category: contracts.CategoryQ,
				Weight:   0.20,
				Features: []FeatureSpec{
					{Name: contracts.FeatureROAProxy, Direction: HigherIsBetter},
					{Name: contracts.FeatureCashConversion, Direction: HigherIsBetter},
					// High accruals mean earnings outrun cash
					{Name: contracts.FeatureAccrualsProxy, Direction: LowerIsBetter},
				},
			},
			{
				Category: contracts.CategoryVG,
				Weight:   0.20,
				Features: []FeatureSpec{
					{Name: contracts.FeaturePE, Direction: LowerIsBetter},
					{Name: contracts.FeatureEVSales, Direction: LowerIsBetter},
					{Name: contracts.FeatureEVSalesZScore, Direction: LowerIsBetter},
					{Name: contracts.FeaturePEGProxy, Direction: LowerIsBetter},
				},
			},
			{
				Category: contracts.CategoryIT,
				Weight:   0.15,
				Features: []FeatureSpec{
					{Name: contracts.FeatureSectorRS6M, Direction: HigherIsBetter},
					{Name: contracts.FeatureSectorRS12M, Direction: HigherIsBetter},
					{Name: contracts.FeatureSectorAbove50DMA, Direction: HigherIsBetter},
					{Name: contracts.FeatureSectorAbove200DMA, Direction: HigherIsBetter},
				},
			},
			{
				Category: contracts.CategoryTC,
				Weight:   0.15,
				Features: []FeatureSpec{
					{Name: contracts.FeatureAbove50DMA, Direction: HigherIsBetter},
					{Name: contracts.FeatureAbove100DMA, Direction: HigherIsBetter},
					{Name: contracts.FeatureAbove200DMA, Direction: HigherIsBetter},
					{Name: contracts.FeatureSixMMomentum, Direction: HigherIsBetter},
					// Drawdowns are negative; closer to zero is better
					{Name: contracts.FeatureMaxDrawdown1Y, Direction: HigherIsBetter},
				},
			},
		},
	}
}

// Validate checks the configuration invariants
func (c Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("no categories configured")
	}

	if c.WinsorizeLowerPct < 0 || c.WinsorizeUpperPct > 100 || c.WinsorizeLowerPct >= c.WinsorizeUpperPct {
		return fmt.Errorf("winsorize band [%v, %v] must satisfy 0 <= lower < upper <= 100",
			c.WinsorizeLowerPct, c.WinsorizeUpperPct)
	}

	var weightSum float64
	seen := make(map[contracts.Category]bool)

	for _, cat := range c.Categories {
		if seen[cat.Category] {
			return fmt.Errorf("duplicate category %q", cat.Category)
		}
		seen[cat.Category] = true

		if cat.Weight < 0 {
			return fmt.Errorf("category %q has negative weight %v", cat.Category, cat.Weight)
		}
		weightSum += cat.Weight

		if len(cat.Features) == 0 {
			return fmt.Errorf("category %q has no features", cat.Category)
		}

		for _, f := range cat.Features {
			if !contracts.IsKnownFeature(f.Name) {
				return fmt.Errorf("category %q references unknown feature %q", cat.Category, f.Name)
			}
			if f.Direction != HigherIsBetter && f.Direction != LowerIsBetter {
				return fmt.Errorf("feature %q has invalid direction %d", f.Name, f.Direction)
			}
		}
	}

	// Allow small floating point error
	if math.Abs(weightSum-1.0) > 0.01 {
		return fmt.Errorf("category weights sum to %v, want 1.0", weightSum)
	}

	return nil
}
