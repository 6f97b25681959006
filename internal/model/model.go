package model

import (
	"agripredict/internal/domain"
)

// Model identifiers as they appear in API requests.
const (
	ShortAverageID         = "short-average"
	WeightedAverageID      = "weighted-average"
	ExponentialSmoothingID = "exponential-smoothing"
	AutoregressiveID       = "autoregressive"
	GradientBoostedID      = "gradient-boosted"

	// EnsembleID is a pseudo-model: it is resolved by the forecast
	// service from the other models' results, not by a Forecaster.
	EnsembleID = "ensemble"
)

// Forecaster is the single contract every forecasting model implements.
type Forecaster interface {
	Name() string
	MinSamples() int
	Forecast(series domain.HistoricalSeries, horizon int, wantConfidence bool) (*domain.ForecastResult, error)
}

// Predictor is a trained external regression artifact. Predict takes one
// feature row keyed by feature name. A nil Predictor is a normal state and
// makes the gradient-boosted model fall back to trend extrapolation.
type Predictor interface {
	Predict(features map[string]float64) (float64, error)
	FeatureNames() []string
}

// Registry maps model identifiers to their implementations. Iteration
// order is fixed so downstream choices like "first available model" are
// deterministic.
type Registry struct {
	order  []string
	models map[string]Forecaster
}

func NewRegistry(predictor Predictor) *Registry {
	r := &Registry{models: map[string]Forecaster{}}
	r.register(ShortAverageID, NewShortAverage())
	r.register(WeightedAverageID, NewWeightedAverage())
	r.register(ExponentialSmoothingID, NewExponentialSmoothing())
	r.register(AutoregressiveID, NewAutoregressive())
	r.register(GradientBoostedID, NewGradientBoosted(predictor))
	return r
}

func (r *Registry) register(id string, f Forecaster) {
	r.order = append(r.order, id)
	r.models[id] = f
}

func (r *Registry) Lookup(id string) (Forecaster, bool) {
	f, ok := r.models[id]
	return f, ok
}

// IDs returns the registered model identifiers in registration order,
// excluding the ensemble pseudo-model.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
