// Package features builds the per-ticker feature columns that feed the
// scorer. Every builder takes already-fetched data and returns plain
// numbers with Undefined() for anything it cannot compute, so the package
// stays free of I/O.
package features

import (
	"math"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// FundamentalsFeatures are the fundamentals-momentum columns plus the
// accruals proxy, which reads the same statement lines
type FundamentalsFeatures struct {
	RevYoY        float64
	GMDelta       float64
	OMDelta       float64
	FCFDelta      float64
	AccrualsProxy float64
}

// BuildFundamentals derives growth and margin-trend features from annual
// statements ordered most recent first
func BuildFundamentals(stmts *contracts.Statements) FundamentalsFeatures {
	out := FundamentalsFeatures{
		RevYoY:        contracts.Undefined(),
		GMDelta:       contracts.Undefined(),
		OMDelta:       contracts.Undefined(),
		FCFDelta:      contracts.Undefined(),
		AccrualsProxy: contracts.Undefined(),
	}
	if stmts == nil {
		return out
	}

	rev := stmts.Revenue

	// Revenue YoY: (latest - prior) / prior
	if len(rev) > 1 && rev[1] != 0 {
		out.RevYoY = (rev[0] - rev[1]) / rev[1]
	}

	out.GMDelta = marginDelta(stmts.GrossProfit, rev)
	out.OMDelta = marginDelta(stmts.OperatingIncome, rev)

	// FCF = CFO - |CapEx|; CapEx arrives negative, so adding it works,
	// but taking the magnitude guards against sources that flip the sign
	fcf := freeCashFlows(stmts.CFO, stmts.CapEx)
	out.FCFDelta = marginDelta(fcf, rev)

	// Accruals proxy: (NetIncome - CFO) / average assets over two periods
	if len(stmts.NetIncome) > 0 && len(stmts.CFO) > 0 && len(stmts.TotalAssets) > 1 {
		avgAssets := (stmts.TotalAssets[0] + stmts.TotalAssets[1]) / 2
		if avgAssets != 0 {
			out.AccrualsProxy = (stmts.NetIncome[0] - stmts.CFO[0]) / avgAssets
		}
	}

	return out
}

// marginDelta is the change in numerator/revenue between the latest two
// periods, Undefined when either period cannot form a margin
func marginDelta(numerator, revenue []float64) float64 {
	if len(numerator) < 2 || len(revenue) < 2 {
		return contracts.Undefined()
	}
	if revenue[0] == 0 || revenue[1] == 0 {
		return contracts.Undefined()
	}
	current := numerator[0] / revenue[0]
	prior := numerator[1] / revenue[1]
	return current - prior
}

// freeCashFlows pairs CFO with CapEx per period for as many periods as
// both lines cover
func freeCashFlows(cfo, capex []float64) []float64 {
	n := len(cfo)
	if len(capex) < n {
		n = len(capex)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = cfo[i] - math.Abs(capex[i])
	}
	return out
}
