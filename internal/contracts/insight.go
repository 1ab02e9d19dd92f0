package contracts

// Insight is the human-readable evidence/risk summary for one top-ranked
// ticker, produced by rule evaluation over the scored table
type Insight struct {
	Ticker   string  `json:"ticker"`
	GRS      float64 `json:"grs"`
	Evidence string  `json:"evidence"` // "; "-joined, exactly 3 items
	Risks    string  `json:"risks"`    // "; "-joined, exactly 2 items
}
