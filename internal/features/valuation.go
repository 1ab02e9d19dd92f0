package features

import (
	"math"
	"sort"

	"github.com/growthroom/growthbrief/internal/contracts"
)

const zscoreYears = 3

// ValuationFeatures are the valuation-versus-growth columns. All of them
// score lower-is-better downstream.
type ValuationFeatures struct {
	PE            float64
	EVSales       float64
	EVSalesZScore float64
	PEGProxy      float64
}

// BuildValuation derives valuation features from quote statistics and
// annual statements ordered most recent first
func BuildValuation(stats *contracts.QuoteStats, stmts *contracts.Statements) ValuationFeatures {
	out := ValuationFeatures{
		PE:            contracts.Undefined(),
		EVSales:       contracts.Undefined(),
		EVSalesZScore: contracts.Undefined(),
		PEGProxy:      contracts.Undefined(),
	}
	if stats == nil || stmts == nil {
		return out
	}

	out.PE = stats.TrailingPE

	ev := stats.EnterpriseValue
	rev := stmts.Revenue

	// EV/Sales, falling back to EV over operating income when the ticker
	// reports no revenue line
	if contracts.IsDefined(ev) {
		switch {
		case len(rev) > 0 && rev[0] != 0:
			out.EVSales = ev / rev[0]
		case len(stmts.OperatingIncome) > 0 && stmts.OperatingIncome[0] != 0:
			out.EVSales = ev / stmts.OperatingIncome[0]
		}
	}

	out.EVSalesZScore = evSalesZScore(ev, rev)

	// PEG proxy: PE over revenue growth expressed in percentage points.
	// Shrinking revenue makes the ratio meaningless, so growth must be
	// positive.
	if contracts.IsDefined(out.PE) && len(rev) > 1 && rev[1] != 0 {
		growth := (rev[0] - rev[1]) / rev[1]
		if growth > 0 {
			out.PEGProxy = out.PE / (growth * 100)
		}
	}

	return out
}

// evSalesZScore measures how stretched the current EV/Sales multiple is
// against the ratios formed with the prior three revenue periods. The
// current enterprise value is reused across periods as a proxy, since
// historical EV is not available from the quote source.
func evSalesZScore(ev float64, revenue []float64) float64 {
	if contracts.IsUndefined(ev) || len(revenue) < zscoreYears+1 {
		return contracts.Undefined()
	}

	ratios := make([]float64, 0, zscoreYears+1)
	for i := 0; i < len(revenue) && i < zscoreYears+1; i++ {
		if revenue[i] != 0 && contracts.IsDefined(revenue[i]) {
			ratios = append(ratios, ev/revenue[i])
		}
	}
	if len(ratios) < zscoreYears+1 {
		return contracts.Undefined()
	}

	// The largest ratio is compared against the rest
	sort.Float64s(ratios)
	current := ratios[len(ratios)-1]
	historical := ratios[len(ratios)-1-zscoreYears : len(ratios)-1]

	mean := 0.0
	for _, r := range historical {
		mean += r
	}
	mean /= float64(len(historical))

	variance := 0.0
	for _, r := range historical {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(historical))

	std := math.Sqrt(variance)
	if std == 0 {
		return contracts.Undefined()
	}
	return (current - mean) / std
}
