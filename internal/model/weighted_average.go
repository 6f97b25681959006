package model

import (
	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

type weightedAverage struct{}

// NewWeightedAverage returns the recency-weighted averaging model. It uses
// the same seven-day window as the short average but weights more recent
// prices linearly heavier, and carries a tighter confidence band.
func NewWeightedAverage() Forecaster {
	return weightedAverage{}
}

func (weightedAverage) Name() string { return "Weighted Average" }

func (weightedAverage) MinSamples() int { return averagingWindow }

func (m weightedAverage) Forecast(series domain.HistoricalSeries, horizon int, wantConfidence bool) (*domain.ForecastResult, error) {
	if len(series) < m.MinSamples() {
		return nil, InsufficientDataError{Model: m.Name(), Need: m.MinSamples(), Have: len(series)}
	}

	prices := series.Prices()
	window := averagingWindow
	if window > len(prices) {
		window = len(prices)
	}

	// linearly increasing weights 1..window over the tail, normalized
	tail := prices[len(prices)-window:]
	weightSum := float64(window*(window+1)) / 2
	weighted := 0.0
	for i, p := range tail {
		weighted += p * float64(i+1) / weightSum
	}

	result := &domain.ForecastResult{
		Values:    repeatValue(weighted, horizon),
		ModelName: m.Name(),
	}

	if wantConfidence {
		stdev, err := stats.StandardDeviationSample(prices)
		if err != nil {
			return nil, PredictionError{Model: m.Name(), Err: err}
		}
		result.ConfidenceLower = offsetValues(result.Values, -0.3*stdev)
		result.ConfidenceUpper = offsetValues(result.Values, 0.3*stdev)
	}

	return result, nil
}
