package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeightedAverage_Forecast(t *testing.T) {
	t.Run("weights recent prices more heavily", func(t *testing.T) {
		// weights 1..7 over 10..16 sum to 392, divided by 28 gives 14.
		series := testSeries(10, 11, 12, 13, 14, 15, 16)
		forecaster := NewWeightedAverage()

		result, err := forecaster.Forecast(series, 3, false)
		require.NoError(t, err)

		require.Len(t, result.Values, 3)
		for _, v := range result.Values {
			require.InDelta(t, 14.0, v, 1e-9)
		}
		require.Equal(t, "Weighted Average", result.ModelName)
	})

	t.Run("sits above the plain mean on a rising series", func(t *testing.T) {
		series := rangeSeries(100, 14)
		shortResult, err := NewShortAverage().Forecast(series, 1, false)
		require.NoError(t, err)
		weightedResult, err := NewWeightedAverage().Forecast(series, 1, false)
		require.NoError(t, err)

		require.Greater(t, weightedResult.Values[0], shortResult.Values[0])
	})

	t.Run("confidence bounds bracket the forecast", func(t *testing.T) {
		series := rangeSeries(10, 10)
		forecaster := NewWeightedAverage()

		result, err := forecaster.Forecast(series, 2, true)
		require.NoError(t, err)
		for i, v := range result.Values {
			require.Less(t, result.ConfidenceLower[i], v)
			require.Greater(t, result.ConfidenceUpper[i], v)
		}
	})

	t.Run("rejects short series", func(t *testing.T) {
		series := testSeries(10, 11, 12)
		_, err := NewWeightedAverage().Forecast(series, 1, false)
		require.Error(t, err)
	})
}
