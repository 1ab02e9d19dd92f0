package features

import (
	"math"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// QualityFeatures are the profitability and cash-quality columns
type QualityFeatures struct {
	ROAProxy       float64
	CashConversion float64
}

// BuildQuality derives quality features from the latest statement period
func BuildQuality(stmts *contracts.Statements) QualityFeatures {
	out := QualityFeatures{
		ROAProxy:       contracts.Undefined(),
		CashConversion: contracts.Undefined(),
	}
	if stmts == nil {
		return out
	}

	// ROA proxy: NetIncome / TotalAssets
	if len(stmts.NetIncome) > 0 && len(stmts.TotalAssets) > 0 && stmts.TotalAssets[0] != 0 {
		out.ROAProxy = stmts.NetIncome[0] / stmts.TotalAssets[0]
	}

	// Cash conversion: FCF / NetIncome
	if len(stmts.CFO) > 0 && len(stmts.CapEx) > 0 && len(stmts.NetIncome) > 0 && stmts.NetIncome[0] != 0 {
		fcf := stmts.CFO[0] - math.Abs(stmts.CapEx[0])
		out.CashConversion = fcf / stmts.NetIncome[0]
	}

	return out
}
