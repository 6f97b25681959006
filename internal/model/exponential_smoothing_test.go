package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExponentialSmoothing_Forecast(t *testing.T) {
	t.Run("constant series forecasts the constant", func(t *testing.T) {
		prices := make([]float64, 21)
		for i := range prices {
			prices[i] = 50
		}
		series := testSeries(prices...)

		result, err := NewExponentialSmoothing().Forecast(series, 7, false)
		require.NoError(t, err)

		require.Len(t, result.Values, 7)
		for _, v := range result.Values {
			require.InDelta(t, 50.0, v, 1e-6)
		}
	})

	t.Run("tracks a linear trend", func(t *testing.T) {
		series := rangeSeries(100, 28)

		result, err := NewExponentialSmoothing().Forecast(series, 5, false)
		require.NoError(t, err)

		last := series[len(series)-1].Price
		for _, v := range result.Values {
			require.Greater(t, v, last-5)
		}
		require.Greater(t, result.Values[4], result.Values[0])
	})

	t.Run("confidence interval widens with the step", func(t *testing.T) {
		series := testSeries(
			10, 12, 11, 13, 12, 14, 13,
			11, 13, 12, 14, 13, 15, 14,
			12, 14, 13, 15, 14, 16, 15,
		)

		result, err := NewExponentialSmoothing().Forecast(series, 6, true)
		require.NoError(t, err)

		require.Len(t, result.ConfidenceLower, 6)
		require.Len(t, result.ConfidenceUpper, 6)
		firstWidth := result.ConfidenceUpper[0] - result.ConfidenceLower[0]
		lastWidth := result.ConfidenceUpper[5] - result.ConfidenceLower[5]
		require.Greater(t, firstWidth, 0.0)
		require.Greater(t, lastWidth, firstWidth)
		for i, v := range result.Values {
			require.LessOrEqual(t, result.ConfidenceLower[i], v)
			require.GreaterOrEqual(t, result.ConfidenceUpper[i], v)
		}
	})

	t.Run("rejects series shorter than one season", func(t *testing.T) {
		series := testSeries(10, 11, 12, 13, 14)
		_, err := NewExponentialSmoothing().Forecast(series, 3, false)
		require.Error(t, err)
	})
}
