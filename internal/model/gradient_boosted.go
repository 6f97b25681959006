package model

import (
	"time"

	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

type gradientBoosted struct {
	predictor Predictor
}

// NewGradientBoosted returns the gradient-boosted regression model. With a
// trained predictor artifact it builds one feature row per forecast day
// and predicts iteratively, feeding each day's prediction back into the
// next day's lag features. Without an artifact it extrapolates the mean
// day-over-day percentage change instead.
func NewGradientBoosted(predictor Predictor) Forecaster {
	return gradientBoosted{predictor: predictor}
}

func (gradientBoosted) Name() string { return "Gradient Boosted" }

func (gradientBoosted) MinSamples() int { return 10 }

func (m gradientBoosted) Forecast(series domain.HistoricalSeries, horizon int, wantConfidence bool) (*domain.ForecastResult, error) {
	if len(series) < m.MinSamples() {
		return nil, InsufficientDataError{Model: m.Name(), Need: m.MinSamples(), Have: len(series)}
	}

	var values []float64
	if m.predictor != nil {
		values = m.predictWithArtifact(series, horizon)
	} else {
		values = trendExtrapolation(series.Prices(), horizon)
	}

	result := &domain.ForecastResult{
		Values:    values,
		ModelName: m.Name(),
	}

	if wantConfidence {
		stdev, err := stats.StandardDeviationSample(series.Prices())
		if err != nil {
			return nil, PredictionError{Model: m.Name(), Err: err}
		}
		result.ConfidenceLower = make([]float64, horizon)
		result.ConfidenceUpper = make([]float64, horizon)
		for i, v := range values {
			// uncertainty grows with each day out
			width := stdev * (1 + 0.1*float64(i))
			lower := v - width
			if lower < 0 {
				lower = 0
			}
			result.ConfidenceLower[i] = lower
			result.ConfidenceUpper[i] = v + width
		}
	}

	return result, nil
}

func (m gradientBoosted) predictWithArtifact(series domain.HistoricalSeries, horizon int) []float64 {
	prices := series.Prices()
	quantities := series.Quantities()
	lastPrice := prices[len(prices)-1]
	lastDate := series.LastDate()

	meanPrice, err := stats.Mean(prices)
	if err != nil {
		meanPrice = lastPrice
	}

	// prices plus predictions so far, so lag features see earlier
	// predicted days
	combined := append([]float64{}, prices...)

	values := make([]float64, 0, horizon)
	for i := 0; i < horizon; i++ {
		date := lastDate.AddDate(0, 0, i+1)
		features := buildFeatureRow(date, combined, quantities, meanPrice, lastPrice)

		row := map[string]float64{}
		for _, name := range m.predictor.FeatureNames() {
			row[name] = features[name]
		}

		pred, err := m.predictor.Predict(row)
		if err != nil {
			// one bad day doesn't sink the whole forecast
			pred = lastPrice
		}
		values = append(values, pred)
		combined = append(combined, pred)
	}

	return values
}

// buildFeatureRow mirrors the feature set the artifact was trained on.
// Supply/demand indices and the holiday flag use fixed defaults since the
// engine has no source for them at forecast time.
func buildFeatureRow(date time.Time, prices, quantities []float64, meanPrice, lastPrice float64) map[string]float64 {
	_, week := date.ISOWeek()
	features := map[string]float64{
		"year":         float64(date.Year()),
		"month":        float64(date.Month()),
		"day":          float64(date.Day()),
		"day_of_week":  float64((int(date.Weekday()) + 6) % 7),
		"week_of_year": float64(week),
		"quarter":      float64((int(date.Month())-1)/3 + 1),
		"is_weekend":   0,
		"is_holiday":   0,
		"market_price": meanPrice,
		"supply_index": 100,
		"demand_index": 100,
	}
	if features["day_of_week"] >= 5 {
		features["is_weekend"] = 1
	}

	for _, lag := range []int{1, 7, 30} {
		features[featureName("price_lag", lag)] = lagValue(prices, lag, lastPrice)
		features[featureName("quantity_sold_lag", lag)] = lagValue(quantities, lag, 100)
	}

	return features
}

func featureName(prefix string, lag int) string {
	switch lag {
	case 1:
		return prefix + "_1"
	case 7:
		return prefix + "_7"
	default:
		return prefix + "_30"
	}
}

func lagValue(seq []float64, lag int, fallback float64) float64 {
	if len(seq) < lag {
		return fallback
	}
	return seq[len(seq)-lag]
}

// trendExtrapolation projects the last price forward by the mean
// day-over-day percentage change, phased in across the horizon.
func trendExtrapolation(prices []float64, horizon int) []float64 {
	changes := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			changes = append(changes, (prices[i]-prices[i-1])/prices[i-1])
		}
	}
	trend := 0.0
	if mean, err := stats.Mean(changes); err == nil {
		trend = mean
	}

	last := prices[len(prices)-1]
	values := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		trendFactor := 1 + trend*float64(i+1)/float64(horizon)
		values[i] = last * trendFactor
	}
	return values
}
