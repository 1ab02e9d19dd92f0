package contracts

import "time"

// PricePoint is a single daily observation of a ticker's adjusted close
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is an ordered-by-date sequence of price points for one ticker.
// Dates are strictly increasing; deduplication and sorting are the
// responsibility of whoever builds the series.
type PriceSeries []PricePoint

// Closes returns the close prices in date order
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the most recent price point
func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s) == 0 {
		return PricePoint{}, false
	}
	return s[len(s)-1], true
}

// Since returns the suffix of the series on or after the cutoff date
func (s PriceSeries) Since(cutoff time.Time) PriceSeries {
	for i, p := range s {
		if !p.Date.Before(cutoff) {
			return s[i:]
		}
	}
	return nil
}
