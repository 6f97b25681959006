package service

import (
	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

// ultimate fallback constants - returned when even the historical mean
// can't be computed, because the forecast call must always produce output
const (
	ultimateFallbackValue = 100.0
	ultimateFallbackBand  = 0.2
)

// fallbackForecast produces the degraded forecast used when every model
// fails: flat at the historical mean with wide bounds.
func fallbackForecast(series domain.HistoricalSeries, horizon int) *domain.ForecastResult {
	prices := series.Prices()

	mean, err := stats.Mean(prices)
	if err != nil {
		return ultimateFallback(horizon)
	}

	var width float64
	if len(prices) > 1 {
		stdev, err := stats.StandardDeviationSample(prices)
		if err != nil {
			return ultimateFallback(horizon)
		}
		width = 2 * stdev
	} else {
		width = 0.1 * mean
	}

	result := &domain.ForecastResult{
		Values:          repeat(mean, horizon),
		ConfidenceLower: repeat(mean-width, horizon),
		ConfidenceUpper: repeat(mean+width, horizon),
		ModelName:       "Fallback",
	}
	return result
}

func ultimateFallback(horizon int) *domain.ForecastResult {
	return &domain.ForecastResult{
		Values:          repeat(ultimateFallbackValue, horizon),
		ConfidenceLower: repeat(ultimateFallbackValue*(1-ultimateFallbackBand), horizon),
		ConfidenceUpper: repeat(ultimateFallbackValue*(1+ultimateFallbackBand), horizon),
		ModelName:       "Fallback",
	}
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
