package service

import (
	"context"
	"testing"

	"agripredict/internal/model"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestComparisonService(t *testing.T) ComparisonService {
	t.Helper()
	registry := model.NewRegistry(nil)
	executor := NewExecutor(4)
	executor.Start()
	t.Cleanup(executor.Stop)
	forecastService := NewForecastService(registry, executor, zap.NewNop().Sugar())
	return NewComparisonService(forecastService, registry, zap.NewNop().Sugar())
}

func TestCompareModels(t *testing.T) {
	ctx := context.Background()

	t.Run("runs every model plus the ensemble", func(t *testing.T) {
		svc := newTestComparisonService(t)

		out, err := svc.CompareModels(ctx, CompareModelsInput{
			Series:          seasonalSeries(40),
			Horizon:         7,
			IncludeEnsemble: true,
		})
		require.NoError(t, err)

		require.Len(t, out.Models, 6)
		ids := map[string]ModelComparison{}
		for _, c := range out.Models {
			ids[c.ModelID] = c
		}
		require.Contains(t, ids, model.EnsembleID)
		require.Equal(t, "Weighted Ensemble", ids[model.EnsembleID].ModelName)
	})

	t.Run("ranking is ordered by MAE", func(t *testing.T) {
		svc := newTestComparisonService(t)

		out, err := svc.CompareModels(ctx, CompareModelsInput{
			Series:  seasonalSeries(40),
			Horizon: 7,
		})
		require.NoError(t, err)

		require.NotEmpty(t, out.Ranking)
		require.Equal(t, out.Ranking[0], out.BestModel)

		byID := map[string]ModelComparison{}
		for _, c := range out.Models {
			byID[c.ModelID] = c
		}
		for i := 1; i < len(out.Ranking); i++ {
			prev := byID[out.Ranking[i-1]]
			curr := byID[out.Ranking[i]]
			require.NotNil(t, prev.Metrics)
			require.NotNil(t, curr.Metrics)
			require.LessOrEqual(t, *prev.Metrics.MAE, *curr.Metrics.MAE)
		}
	})

	t.Run("scored models carry forecast data and timing", func(t *testing.T) {
		svc := newTestComparisonService(t)

		out, err := svc.CompareModels(ctx, CompareModelsInput{
			Series:  seasonalSeries(40),
			Horizon: 5,
		})
		require.NoError(t, err)

		for _, c := range out.Models {
			require.Len(t, c.ForecastData, 5)
			require.NotNil(t, c.ComputationTimeMs)
		}
	})

	t.Run("short series still produces an answer per model", func(t *testing.T) {
		svc := newTestComparisonService(t)

		// too short for holdout scoring, so nothing can rank
		out, err := svc.CompareModels(ctx, CompareModelsInput{
			Series:          testSeries(10, 11, 12, 13, 14, 15, 16, 17),
			Horizon:         3,
			IncludeEnsemble: true,
		})
		require.NoError(t, err)

		require.Len(t, out.Models, 6)
		require.Empty(t, out.Ranking)
		require.Equal(t, model.EnsembleID, out.BestModel)
	})
}
