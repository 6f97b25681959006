package model

import (
	"math"

	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

const seasonLength = 7

// smoothing constants for the additive Holt-Winters fit
const (
	hwAlpha = 0.3
	hwBeta  = 0.1
	hwGamma = 0.3
)

type exponentialSmoothing struct{}

// NewExponentialSmoothing returns an additive Holt-Winters model with a
// weekly season. Confidence bounds come from the in-sample residual
// spread, widening with the forecast step; if the residuals are
// degenerate it falls back to the historical standard deviation.
func NewExponentialSmoothing() Forecaster {
	return exponentialSmoothing{}
}

func (exponentialSmoothing) Name() string { return "Exponential Smoothing" }

func (exponentialSmoothing) MinSamples() int { return seasonLength }

func (m exponentialSmoothing) Forecast(series domain.HistoricalSeries, horizon int, wantConfidence bool) (*domain.ForecastResult, error) {
	if len(series) < m.MinSamples() {
		return nil, InsufficientDataError{Model: m.Name(), Need: m.MinSamples(), Have: len(series)}
	}

	prices := series.Prices()
	n := len(prices)

	level, err := stats.Mean(prices[:seasonLength])
	if err != nil {
		return nil, PredictionError{Model: m.Name(), Err: err}
	}

	trend := initialTrend(prices)

	season := make([]float64, seasonLength)
	for i := 0; i < seasonLength; i++ {
		season[i] = prices[i] - level
	}

	residuals := make([]float64, 0, n)
	for t := 0; t < n; t++ {
		si := t % seasonLength
		fitted := level + trend + season[si]
		residuals = append(residuals, prices[t]-fitted)

		prevLevel := level
		level = hwAlpha*(prices[t]-season[si]) + (1-hwAlpha)*(level+trend)
		trend = hwBeta*(level-prevLevel) + (1-hwBeta)*trend
		season[si] = hwGamma*(prices[t]-level) + (1-hwGamma)*season[si]
	}

	values := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		values[i] = level + trend*float64(i+1) + season[(n+i)%seasonLength]
	}

	result := &domain.ForecastResult{
		Values:    values,
		ModelName: m.Name(),
	}

	if wantConfidence {
		width := residualStdev(residuals)
		if width <= 0 {
			if fallback, err := stats.StandardDeviationSample(prices); err == nil {
				width = fallback
			}
		}
		result.ConfidenceLower = make([]float64, horizon)
		result.ConfidenceUpper = make([]float64, horizon)
		for i, v := range values {
			stepWidth := width * math.Sqrt(float64(i+1))
			result.ConfidenceLower[i] = v - stepWidth
			result.ConfidenceUpper[i] = v + stepWidth
		}
	}

	return result, nil
}

// initialTrend seeds the trend component. With two full seasons it
// averages the season-over-season change; otherwise it uses the overall
// slope.
func initialTrend(prices []float64) float64 {
	n := len(prices)
	if n >= 2*seasonLength {
		sum := 0.0
		for i := 0; i < seasonLength; i++ {
			sum += (prices[i+seasonLength] - prices[i]) / float64(seasonLength)
		}
		return sum / float64(seasonLength)
	}
	if n < 2 {
		return 0
	}
	return (prices[n-1] - prices[0]) / float64(n-1)
}

func residualStdev(residuals []float64) float64 {
	if len(residuals) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, r := range residuals {
		sumSq += r * r
	}
	return math.Sqrt(sumSq / float64(len(residuals)-1))
}
