package features

import (
	"github.com/growthroom/growthbrief/internal/contracts"
)

// sectorETFMap maps common tickers to their sector ETF. Tickers without a
// mapping get undefined industry features rather than an error.
var sectorETFMap = map[string]string{
	"AAPL":  "XLK",
	"MSFT":  "XLK",
	"NVDA":  "SMH",
	"AMD":   "SMH",
	"AVGO":  "SMH",
	"GOOG":  "XLK",
	"GOOGL": "XLK",
	"CRM":   "XLK",
	"ADBE":  "XLK",
	"NOW":   "XLK",
	"INTU":  "XLK",
	"AMZN":  "XLY",
	"TSLA":  "XLY",
	"HD":    "XLY",
	"NKE":   "XLY",
	"SBUX":  "XLY",
	"MCD":   "XLY",
	"META":  "XLC",
	"DIS":   "XLC",
	"CMCSA": "XLC",
	"VZ":    "XLC",
	"T":     "XLC",
	"JPM":   "XLF",
	"V":     "XLF",
	"MA":    "XLF",
	"XOM":   "XLE",
	"JNJ":   "XLV",
	"UNH":   "XLV",
	"PFE":   "XLV",
	"MRK":   "XLV",
	"ABBV":  "XLV",
	"LLY":   "XLV",
	"ISRG":  "XLV",
	"PG":    "XLP",
	"KO":    "XLP",
	"PEP":   "XLP",
	"COST":  "XLP",
	"BA":    "XLI",
	"CAT":   "XLI",
	"GE":    "XLI",
	"HON":   "XLI",
	"MMM":   "XLI",
	"DOW":   "XLB",
	"LIN":   "XLB",
	"DUK":   "XLU",
	"NEE":   "XLU",
	"SO":    "XLU",
	"PLD":   "XLRE",
	"SPG":   "XLRE",
}

// SectorETF returns the sector ETF symbol for a ticker
func SectorETF(ticker string) (string, bool) {
	etf, ok := sectorETFMap[ticker]
	return etf, ok
}

// IndustryFeatures are the sector-tailwind columns, measured on the
// ticker's sector ETF rather than the ticker itself
type IndustryFeatures struct {
	SectorRS6M        float64
	SectorRS12M       float64
	SectorAbove50DMA  float64
	SectorAbove200DMA float64
}

// BuildIndustry derives sector relative strength against the benchmark
// and sector trend breadth from the two ETF price histories
func BuildIndustry(sector, benchmark contracts.PriceSeries) IndustryFeatures {
	out := IndustryFeatures{
		SectorRS6M:        contracts.Undefined(),
		SectorRS12M:       contracts.Undefined(),
		SectorAbove50DMA:  contracts.Undefined(),
		SectorAbove200DMA: contracts.Undefined(),
	}

	sectorCloses := sector.Closes()
	benchCloses := benchmark.Closes()
	if len(sectorCloses) == 0 {
		return out
	}

	out.SectorRS6M = relativeStrength(sectorCloses, benchCloses, 6)
	out.SectorRS12M = relativeStrength(sectorCloses, benchCloses, 12)

	price := sectorCloses[len(sectorCloses)-1]
	out.SectorAbove50DMA = aboveSMA(price, sectorCloses, 50)
	out.SectorAbove200DMA = aboveSMA(price, sectorCloses, 200)

	return out
}

// relativeStrength is the sector's trailing momentum minus the
// benchmark's over the same month window
func relativeStrength(sector, benchmark []float64, months int) float64 {
	sectorMom := trailingMomentum(sector, months)
	benchMom := trailingMomentum(benchmark, months)
	if contracts.IsUndefined(sectorMom) || contracts.IsUndefined(benchMom) {
		return contracts.Undefined()
	}
	return sectorMom - benchMom
}
