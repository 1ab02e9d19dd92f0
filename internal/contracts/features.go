package contracts

import "fmt"

// Category is one of the five scoring categories
type Category string

const (
	CategoryFM Category = "FM" // Fundamentals-Momentum
	CategoryQ  Category = "Q"  // Quality
	CategoryVG Category = "VG" // Valuation-Growth
	CategoryIT Category = "IT" // Industry-Tailwind
	CategoryTC Category = "TC" // Technical-Confirmation
)

// Categories lists the five categories in canonical order
func Categories() []Category {
	return []Category{CategoryFM, CategoryQ, CategoryVG, CategoryIT, CategoryTC}
}

// Feature names the recognized numeric columns of the feature table.
// These exact names are the contract between the feature collector and
// the scorer.
type Feature string

const (
	// Fundamentals-Momentum
	FeatureRevYoY   Feature = "rev_yoy"
	FeatureGMDelta  Feature = "gm_delta"
	FeatureOMDelta  Feature = "om_delta"
	FeatureFCFDelta Feature = "fcf_delta"

	// Quality
	FeatureROAProxy       Feature = "roa_proxy"
	FeatureCashConversion Feature = "cash_conversion"
	FeatureAccrualsProxy  Feature = "accruals_proxy"

	// Valuation-Growth
	FeaturePE            Feature = "pe"
	FeatureEVSales       Feature = "ev_sales"
	FeatureEVSalesZScore Feature = "ev_sales_zscore"
	FeaturePEGProxy      Feature = "peg_proxy"

	// Industry-Tailwind
	FeatureSectorRS6M        Feature = "sector_rs_6m"
	FeatureSectorRS12M       Feature = "sector_rs_12m"
	FeatureSectorAbove50DMA  Feature = "sector_above_50dma"
	FeatureSectorAbove200DMA Feature = "sector_above_200dma"

	// Technical-Confirmation
	FeatureAbove50DMA    Feature = "above_50dma"
	FeatureAbove100DMA   Feature = "above_100dma"
	FeatureAbove200DMA   Feature = "above_200dma"
	FeatureSixMMomentum  Feature = "6m_momentum"
	FeatureMaxDrawdown1Y Feature = "max_drawdown_1y"
)

// KnownFeatures returns the full recognized feature vocabulary
func KnownFeatures() []Feature {
	return []Feature{
		FeatureRevYoY, FeatureGMDelta, FeatureOMDelta, FeatureFCFDelta,
		FeatureROAProxy, FeatureCashConversion, FeatureAccrualsProxy,
		FeaturePE, FeatureEVSales, FeatureEVSalesZScore, FeaturePEGProxy,
		FeatureSectorRS6M, FeatureSectorRS12M, FeatureSectorAbove50DMA, FeatureSectorAbove200DMA,
		FeatureAbove50DMA, FeatureAbove100DMA, FeatureAbove200DMA, FeatureSixMMomentum, FeatureMaxDrawdown1Y,
	}
}

// IsKnownFeature reports whether name is part of the recognized vocabulary
func IsKnownFeature(name Feature) bool {
	for _, f := range KnownFeatures() {
		if f == name {
			return true
		}
	}
	return false
}

// FeatureTable is an immutable snapshot of raw per-ticker metrics, stored
// column-wise. A column absent from the map and a column full of Undefined()
// read the same way through Column/Value; absence just avoids allocating.
type FeatureTable struct {
	tickers []string
	index   map[string]int
	columns map[Feature][]float64
}

// NewFeatureTable creates an empty table for the given tickers.
// Tickers must be unique.
func NewFeatureTable(tickers []string) (*FeatureTable, error) {
	index := make(map[string]int, len(tickers))
	for i, ticker := range tickers {
		if _, dup := index[ticker]; dup {
			return nil, fmt.Errorf("duplicate ticker %q", ticker)
		}
		index[ticker] = i
	}

	return &FeatureTable{
		tickers: append([]string(nil), tickers...),
		index:   index,
		columns: make(map[Feature][]float64),
	}, nil
}

// Len returns the number of tickers (rows)
func (t *FeatureTable) Len() int {
	return len(t.tickers)
}

// Tickers returns the row order
func (t *FeatureTable) Tickers() []string {
	return append([]string(nil), t.tickers...)
}

// SetValue sets one feature value for one ticker. Unknown feature names are
// rejected so that a collector typo fails fast instead of silently scoring
// a column nothing reads.
func (t *FeatureTable) SetValue(ticker string, feature Feature, value float64) error {
	if !IsKnownFeature(feature) {
		return fmt.Errorf("unknown feature %q", feature)
	}

	i, ok := t.index[ticker]
	if !ok {
		return fmt.Errorf("unknown ticker %q", ticker)
	}

	col, ok := t.columns[feature]
	if !ok {
		col = make([]float64, len(t.tickers))
		for j := range col {
			col[j] = Undefined()
		}
		t.columns[feature] = col
	}

	col[i] = value
	return nil
}

// Column returns a copy of the feature column in ticker order. An absent
// feature produces an entirely-undefined column.
func (t *FeatureTable) Column(feature Feature) []float64 {
	out := make([]float64, len(t.tickers))

	col, ok := t.columns[feature]
	if !ok {
		for i := range out {
			out[i] = Undefined()
		}
		return out
	}

	copy(out, col)
	return out
}

// Value returns one value; Undefined() when the feature or ticker is absent
func (t *FeatureTable) Value(ticker string, feature Feature) float64 {
	i, ok := t.index[ticker]
	if !ok {
		return Undefined()
	}

	col, ok := t.columns[feature]
	if !ok {
		return Undefined()
	}

	return col[i]
}

// HasColumn reports whether any value was ever set for the feature
func (t *FeatureTable) HasColumn(feature Feature) bool {
	_, ok := t.columns[feature]
	return ok
}
