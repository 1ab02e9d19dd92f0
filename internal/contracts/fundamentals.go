package contracts

// Statements holds the annual statement lines the feature builders read,
// most recent period first. Slices may be short or empty for tickers with
// thin filings; builders emit Undefined() for anything they cannot compute.
type Statements struct {
	Revenue         []float64 `json:"revenue"`
	GrossProfit     []float64 `json:"gross_profit"`
	OperatingIncome []float64 `json:"operating_income"`
	NetIncome       []float64 `json:"net_income"`
	CFO             []float64 `json:"cfo"`
	CapEx           []float64 `json:"capex"` // reported negative, as sources publish it
	TotalAssets     []float64 `json:"total_assets"`
}

// QuoteStats holds current-quote valuation figures
type QuoteStats struct {
	TrailingPE      float64 `json:"trailing_pe"`
	EnterpriseValue float64 `json:"enterprise_value"`
}
