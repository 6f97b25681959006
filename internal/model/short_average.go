package model

import (
	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

const averagingWindow = 7

type shortAverage struct{}

// NewShortAverage returns the short-window averaging model: the forecast
// is the mean of the last seven prices, held flat over the horizon.
func NewShortAverage() Forecaster {
	return shortAverage{}
}

func (shortAverage) Name() string { return "Short Average" }

func (shortAverage) MinSamples() int { return averagingWindow }

func (m shortAverage) Forecast(series domain.HistoricalSeries, horizon int, wantConfidence bool) (*domain.ForecastResult, error) {
	if len(series) < m.MinSamples() {
		return nil, InsufficientDataError{Model: m.Name(), Need: m.MinSamples(), Have: len(series)}
	}

	prices := series.Prices()
	window := averagingWindow
	if window > len(prices) {
		window = len(prices)
	}

	mean, err := stats.Mean(prices[len(prices)-window:])
	if err != nil {
		return nil, PredictionError{Model: m.Name(), Err: err}
	}

	result := &domain.ForecastResult{
		Values:    repeatValue(mean, horizon),
		ModelName: m.Name(),
	}

	if wantConfidence {
		stdev, err := stats.StandardDeviationSample(prices)
		if err != nil {
			return nil, PredictionError{Model: m.Name(), Err: err}
		}
		result.ConfidenceLower = offsetValues(result.Values, -0.5*stdev)
		result.ConfidenceUpper = offsetValues(result.Values, 0.5*stdev)
	}

	return result, nil
}

func repeatValue(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func offsetValues(values []float64, delta float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = v + delta
	}
	return out
}
