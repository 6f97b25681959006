package domain

import "time"

// AccuracyMetrics holds holdout-validation accuracy numbers for one model.
// Nil means the metric is undefined for the data it was computed on, e.g.
// MAPE when every true value is zero, or MASE without enough training
// history.
type AccuracyMetrics struct {
	MAE      *float64 `json:"mae"`
	RMSE     *float64 `json:"rmse"`
	MAPE     *float64 `json:"mape"`
	Bias     *float64 `json:"bias"`
	MASE     *float64 `json:"mase"`
	RSquared *float64 `json:"r_squared"`
}

// ForecastResult is one model's forecast over the full horizon. Confidence
// bounds are nil when the caller didn't ask for them. Results are treated
// as immutable once a model returns them.
type ForecastResult struct {
	Values          []float64
	ConfidenceLower []float64
	ConfidenceUpper []float64
	ModelName       string
	Metrics         *AccuracyMetrics
	Weight          float64
	// ComponentModels is only set on the ensemble result and records how
	// many models contributed to it.
	ComponentModels int
}

// ForecastDataPoint is the externally visible unit of output - one
// forecast day, already rounded for presentation.
type ForecastDataPoint struct {
	Date            time.Time
	PredictedValue  float64
	ConfidenceLower *float64
	ConfidenceUpper *float64
	ModelUsed       string
}
