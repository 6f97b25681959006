package model

import (
	"agripredict/internal/domain"
	"agripredict/internal/util"
)

// testSeries builds a daily series starting 2024-01-01 with the given
// prices and a flat quantity of 100.
func testSeries(prices ...float64) domain.HistoricalSeries {
	start := util.NewDate(2024, 1, 1)
	series := make(domain.HistoricalSeries, len(prices))
	for i, price := range prices {
		series[i] = domain.PricePoint{
			Date:     start.AddDate(0, 0, i),
			Quantity: 100,
			Price:    price,
		}
	}
	return series
}

func rangeSeries(start float64, n int) domain.HistoricalSeries {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = start + float64(i)
	}
	return testSeries(prices...)
}
