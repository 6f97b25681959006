package service

import (
	"strings"
	"testing"

	"agripredict/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestGenerateForecastSummary(t *testing.T) {
	series := testSeries(100, 100, 100)

	t.Run("rising forecast reads as increasing", func(t *testing.T) {
		points := []domain.ForecastDataPoint{
			{PredictedValue: 110},
			{PredictedValue: 110},
		}

		summary := GenerateForecastSummary(points, series, []string{"short-average"}, "realistic")

		require.Contains(t, summary, "**increasing** trend")
		require.Contains(t, summary, "10.0% increasing")
		require.Contains(t, summary, "$100.00")
		require.Contains(t, summary, "$110.00")
		require.Contains(t, summary, "short-average")
		require.Contains(t, summary, "increasing inventory")
	})

	t.Run("falling forecast reads as decreasing", func(t *testing.T) {
		points := []domain.ForecastDataPoint{{PredictedValue: 90}}

		summary := GenerateForecastSummary(points, series, []string{"ensemble"}, "pessimistic")

		require.Contains(t, summary, "**decreasing** trend")
		require.Contains(t, summary, "pessimistic scenario")
		require.Contains(t, summary, "may decline")
	})

	t.Run("empty forecast has no summary", func(t *testing.T) {
		summary := GenerateForecastSummary(nil, series, nil, "realistic")
		require.Equal(t, "Forecast summary unavailable.", summary)
	})
}

func TestGenerateComparisonSummary(t *testing.T) {
	metrics := func(mae, rmse float64) *domain.AccuracyMetrics {
		return &domain.AccuracyMetrics{MAE: &mae, RMSE: &rmse}
	}
	comparisons := []ModelComparison{
		{ModelID: "short-average", ModelName: "Short Average", Metrics: metrics(2, 3), Weight: 0.6},
		{ModelID: "autoregressive", ModelName: "Autoregressive", Metrics: metrics(4, 5), Weight: 0.4},
	}

	summary := GenerateComparisonSummary(comparisons, []string{"short-average", "autoregressive"}, "short-average")

	require.Contains(t, summary, "**Best Model:** Short Average")
	require.Contains(t, summary, "| 1 | Short Average | 2.00 | 3.00 |")
	require.Contains(t, summary, "| 2 | Autoregressive | 4.00 | 5.00 |")

	// weights ordered largest first
	weightsSection := summary[strings.Index(summary, "### Ensemble Weights"):]
	shortIdx := strings.Index(weightsSection, "Short Average: 60.0%")
	arIdx := strings.Index(weightsSection, "Autoregressive: 40.0%")
	require.Greater(t, shortIdx, -1)
	require.Greater(t, arIdx, -1)
	require.Less(t, shortIdx, arIdx)

	t.Run("unscored comparison has no rankings", func(t *testing.T) {
		bare := []ModelComparison{{ModelID: "ensemble", ModelName: "Weighted Ensemble"}}
		summary := GenerateComparisonSummary(bare, nil, "ensemble")
		require.Contains(t, summary, "## Model Comparison Results")
		require.NotContains(t, summary, "**Best Model:**")
		require.NotContains(t, summary, "### Ensemble Weights")
	})
}
