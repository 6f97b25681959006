package domain

import "time"

// PricePoint is one observed day of market history for a product.
type PricePoint struct {
	Date     time.Time
	Quantity float64
	Price    float64
}

// HistoricalSeries is a date-sorted run of price points with unique dates.
// The forecasting pipeline only ever reads it; scenario adjustment works
// on a copy.
type HistoricalSeries []PricePoint

func (s HistoricalSeries) Prices() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Price
	}
	return out
}

func (s HistoricalSeries) Quantities() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Quantity
	}
	return out
}

func (s HistoricalSeries) LastDate() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Date
}

// AdjustPrices returns a copy of the series with every price multiplied
// by the given factor. Quantities and dates are untouched.
func (s HistoricalSeries) AdjustPrices(multiplier float64) HistoricalSeries {
	out := make(HistoricalSeries, len(s))
	copy(out, s)
	for i := range out {
		out[i].Price *= multiplier
	}
	return out
}
