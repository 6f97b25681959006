package service

import (
	"errors"
	"math"

	"agripredict/internal/domain"
	"agripredict/internal/model"

	"github.com/montanaflynn/stats"
)

// errEnsembleEmpty is absorbed by the caller - an empty ensemble never
// reaches the API boundary.
var errEnsembleEmpty = errors.New("no model results available for ensemble")

// buildEnsemble combines every non-ensemble result that covers the full
// horizon into one accuracy-weighted forecast. Models without a backtest
// weight share an equal default.
func buildEnsemble(results map[string]*domain.ForecastResult, order []string, horizon int, includeConfidence bool, state *callState) (*domain.ForecastResult, error) {
	contributors := []string{}
	for _, id := range order {
		if id == model.EnsembleID {
			continue
		}
		result, ok := results[id]
		if !ok || len(result.Values) < horizon {
			continue
		}
		contributors = append(contributors, id)
	}
	if len(contributors) == 0 {
		return nil, errEnsembleEmpty
	}

	weights := contributorWeights(contributors, state.weights)

	values := make([]float64, horizon)
	for i := 0; i < horizon; i++ {
		// renormalize over the models actually contributing this day
		daySum := 0.0
		dayWeight := 0.0
		for _, id := range contributors {
			if i < len(results[id].Values) {
				daySum += results[id].Values[i] * weights[id]
				dayWeight += weights[id]
			}
		}
		if dayWeight > 0 {
			values[i] = daySum / dayWeight
		}
	}

	ensemble := &domain.ForecastResult{
		Values:          values,
		ModelName:       "Weighted Ensemble",
		Metrics:         aggregateEnsembleMetrics(contributors, state.metrics),
		ComponentModels: len(contributors),
	}

	if includeConfidence {
		lower, upper := ensembleConfidence(results, contributors, weights, values, horizon)
		ensemble.ConfidenceLower = lower
		ensemble.ConfidenceUpper = upper
	}

	return ensemble, nil
}

func contributorWeights(contributors []string, derived map[string]float64) map[string]float64 {
	equal := 1.0 / float64(len(contributors))
	weights := map[string]float64{}
	total := 0.0
	for _, id := range contributors {
		w, ok := derived[id]
		if !ok || w <= 0 {
			w = equal
		}
		weights[id] = w
		total += w
	}
	for id := range weights {
		weights[id] /= total
	}
	return weights
}

// ensembleConfidence takes the weighted sum of contributor bounds when at
// least one model supplied them; otherwise it derives a band from the
// spread of the ensemble values themselves.
func ensembleConfidence(results map[string]*domain.ForecastResult, contributors []string, weights map[string]float64, values []float64, horizon int) ([]float64, []float64) {
	bounded := []string{}
	boundedTotal := 0.0
	for _, id := range contributors {
		result := results[id]
		if len(result.ConfidenceLower) >= horizon && len(result.ConfidenceUpper) >= horizon {
			bounded = append(bounded, id)
			boundedTotal += weights[id]
		}
	}

	lower := make([]float64, horizon)
	upper := make([]float64, horizon)

	if len(bounded) > 0 && boundedTotal > 0 {
		for i := 0; i < horizon; i++ {
			for _, id := range bounded {
				w := weights[id] / boundedTotal
				lower[i] += results[id].ConfidenceLower[i] * w
				upper[i] += results[id].ConfidenceUpper[i] * w
			}
		}
		return lower, upper
	}

	spread := 0.0
	if len(values) > 1 {
		if sd, err := stats.StandardDeviation(values); err == nil {
			spread = sd
		}
	} else if mean, err := stats.Mean(values); err == nil {
		spread = mean * 0.1
	}
	for i, v := range values {
		lower[i] = v - spread
		upper[i] = v + spread
	}
	return lower, upper
}

func round4(v float64) *float64 {
	rounded := math.Round(v*1e4) / 1e4
	return &rounded
}

// aggregateEnsembleMetrics summarizes component metrics as plain means,
// skipping absent values.
func aggregateEnsembleMetrics(contributors []string, metrics map[string]*domain.AccuracyMetrics) *domain.AccuracyMetrics {
	pick := func(selector func(*domain.AccuracyMetrics) *float64) *float64 {
		values := []float64{}
		for _, id := range contributors {
			m, ok := metrics[id]
			if !ok {
				continue
			}
			if v := selector(m); v != nil {
				values = append(values, *v)
			}
		}
		if len(values) == 0 {
			return nil
		}
		mean, err := stats.Mean(values)
		if err != nil {
			return nil
		}
		return round4(mean)
	}

	return &domain.AccuracyMetrics{
		MAE:      pick(func(m *domain.AccuracyMetrics) *float64 { return m.MAE }),
		RMSE:     pick(func(m *domain.AccuracyMetrics) *float64 { return m.RMSE }),
		MAPE:     pick(func(m *domain.AccuracyMetrics) *float64 { return m.MAPE }),
		Bias:     pick(func(m *domain.AccuracyMetrics) *float64 { return m.Bias }),
		MASE:     pick(func(m *domain.AccuracyMetrics) *float64 { return m.MASE }),
		RSquared: pick(func(m *domain.AccuracyMetrics) *float64 { return m.RSquared }),
	}
}
