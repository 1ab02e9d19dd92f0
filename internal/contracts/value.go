package contracts

import "math"

// Undefined is the explicit "no value" marker used throughout the core.
// Missing or insufficient data yields Undefined() in the relevant field,
// never an error, so downstream aggregation can skip it deterministically.
func Undefined() float64 {
	return math.NaN()
}

// IsDefined reports whether v carries a real value
func IsDefined(v float64) bool {
	return !math.IsNaN(v)
}

// IsUndefined reports whether v is the undefined marker
func IsUndefined(v float64) bool {
	return math.IsNaN(v)
}
