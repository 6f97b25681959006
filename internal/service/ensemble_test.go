package service

import (
	"testing"

	"agripredict/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestBuildEnsemble(t *testing.T) {
	t.Run("combines contributors by derived weight", func(t *testing.T) {
		results := map[string]*domain.ForecastResult{
			"a": {Values: []float64{10, 10}, ModelName: "A"},
			"b": {Values: []float64{20, 20}, ModelName: "B"},
		}
		state := &callState{
			metrics: map[string]*domain.AccuracyMetrics{},
			weights: map[string]float64{"a": 0.75, "b": 0.25},
		}

		ensemble, err := buildEnsemble(results, []string{"a", "b"}, 2, false, state)
		require.NoError(t, err)

		require.Equal(t, 2, ensemble.ComponentModels)
		for _, v := range ensemble.Values {
			require.InDelta(t, 12.5, v, 1e-9)
		}
	})

	t.Run("defaults to equal weights without a backtest", func(t *testing.T) {
		results := map[string]*domain.ForecastResult{
			"a": {Values: []float64{10}},
			"b": {Values: []float64{30}},
		}
		state := &callState{metrics: map[string]*domain.AccuracyMetrics{}, weights: map[string]float64{}}

		ensemble, err := buildEnsemble(results, []string{"a", "b"}, 1, false, state)
		require.NoError(t, err)
		require.InDelta(t, 20.0, ensemble.Values[0], 1e-9)
	})

	t.Run("skips contributors not covering the horizon", func(t *testing.T) {
		results := map[string]*domain.ForecastResult{
			"a": {Values: []float64{10, 10, 10}},
			"b": {Values: []float64{30}},
		}
		state := &callState{metrics: map[string]*domain.AccuracyMetrics{}, weights: map[string]float64{}}

		ensemble, err := buildEnsemble(results, []string{"a", "b"}, 3, false, state)
		require.NoError(t, err)
		require.Equal(t, 1, ensemble.ComponentModels)
		for _, v := range ensemble.Values {
			require.InDelta(t, 10.0, v, 1e-9)
		}
	})

	t.Run("bounds come from the bounded contributors", func(t *testing.T) {
		results := map[string]*domain.ForecastResult{
			"a": {
				Values:          []float64{10, 10},
				ConfidenceLower: []float64{8, 8},
				ConfidenceUpper: []float64{12, 12},
			},
			"b": {Values: []float64{20, 20}},
		}
		state := &callState{
			metrics: map[string]*domain.AccuracyMetrics{},
			weights: map[string]float64{"a": 0.75, "b": 0.25},
		}

		ensemble, err := buildEnsemble(results, []string{"a", "b"}, 2, true, state)
		require.NoError(t, err)

		// only "a" has bounds, so its weight renormalizes to 1
		for i := range ensemble.Values {
			require.InDelta(t, 8.0, ensemble.ConfidenceLower[i], 1e-9)
			require.InDelta(t, 12.0, ensemble.ConfidenceUpper[i], 1e-9)
		}
	})

	t.Run("derives bounds from the value spread when none are supplied", func(t *testing.T) {
		results := map[string]*domain.ForecastResult{
			"a": {Values: []float64{10, 14}},
		}
		state := &callState{metrics: map[string]*domain.AccuracyMetrics{}, weights: map[string]float64{}}

		ensemble, err := buildEnsemble(results, []string{"a"}, 2, true, state)
		require.NoError(t, err)

		require.Len(t, ensemble.ConfidenceLower, 2)
		require.Len(t, ensemble.ConfidenceUpper, 2)
		for i, v := range ensemble.Values {
			require.Less(t, ensemble.ConfidenceLower[i], v)
			require.Greater(t, ensemble.ConfidenceUpper[i], v)
		}
	})

	t.Run("aggregated metrics are the mean of the components", func(t *testing.T) {
		mae := func(v float64) *domain.AccuracyMetrics {
			return &domain.AccuracyMetrics{MAE: &v}
		}
		results := map[string]*domain.ForecastResult{
			"a": {Values: []float64{10}},
			"b": {Values: []float64{20}},
		}
		state := &callState{
			metrics: map[string]*domain.AccuracyMetrics{"a": mae(2), "b": mae(4)},
			weights: map[string]float64{},
		}

		ensemble, err := buildEnsemble(results, []string{"a", "b"}, 1, false, state)
		require.NoError(t, err)
		require.NotNil(t, ensemble.Metrics)
		require.NotNil(t, ensemble.Metrics.MAE)
		require.InDelta(t, 3.0, *ensemble.Metrics.MAE, 1e-9)
		require.Nil(t, ensemble.Metrics.RMSE)
	})

	t.Run("empty input is an error", func(t *testing.T) {
		state := &callState{metrics: map[string]*domain.AccuracyMetrics{}, weights: map[string]float64{}}
		_, err := buildEnsemble(map[string]*domain.ForecastResult{}, nil, 2, false, state)
		require.ErrorIs(t, err, errEnsembleEmpty)
	})
}
