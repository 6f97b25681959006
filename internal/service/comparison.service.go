package service

import (
	"context"
	"sort"
	"time"

	"agripredict/internal/domain"
	"agripredict/internal/model"

	"go.uber.org/zap"
)

type CompareModelsInput struct {
	Series          domain.HistoricalSeries
	Horizon         int
	IncludeEnsemble bool
}

type ModelComparison struct {
	ModelID           string
	ModelName         string
	ForecastData      []domain.ForecastDataPoint
	Metrics           *domain.AccuracyMetrics
	Weight            float64
	ComputationTimeMs *float64
}

type CompareModelsOutput struct {
	Models    []ModelComparison
	BestModel string
	Ranking   []string
}

type ComparisonService interface {
	CompareModels(ctx context.Context, in CompareModelsInput) (*CompareModelsOutput, error)
}

type comparisonServiceHandler struct {
	ForecastService ForecastService
	Registry        *model.Registry
	Logger          *zap.SugaredLogger
}

func NewComparisonService(forecastService ForecastService, registry *model.Registry, logger *zap.SugaredLogger) ComparisonService {
	return comparisonServiceHandler{
		ForecastService: forecastService,
		Registry:        registry,
		Logger:          logger,
	}
}

// CompareModels runs every model independently over the same series with
// holdout metrics on, then ranks them by MAE. A model that fails still
// shows up in the output, with empty data and no metrics.
func (h comparisonServiceHandler) CompareModels(ctx context.Context, in CompareModelsInput) (*CompareModelsOutput, error) {
	ids := h.Registry.IDs()
	if in.IncludeEnsemble {
		ids = append(ids, model.EnsembleID)
	}

	comparisons := make([]ModelComparison, 0, len(ids))
	for _, id := range ids {
		start := time.Now()
		out, err := h.ForecastService.GenerateForecast(ctx, GenerateForecastInput{
			Series:            in.Series,
			Horizon:           in.Horizon,
			Models:            []string{id},
			IncludeConfidence: true,
			Scenario:          "realistic",
			CalculateMetrics:  true,
		})
		if err != nil {
			h.Logger.Warnw("model comparison run failed", "model", id, "error", err)
			comparisons = append(comparisons, ModelComparison{
				ModelID:   id,
				ModelName: h.displayName(id),
			})
			continue
		}

		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		comparisons = append(comparisons, ModelComparison{
			ModelID:           id,
			ModelName:         h.displayName(id),
			ForecastData:      out.ForecastData,
			Metrics:           out.ModelMetrics[id],
			Weight:            out.ModelWeights[id],
			ComputationTimeMs: floatPtr(round2(elapsed)),
		})
	}

	ranking := rankByMAE(comparisons)
	best := model.EnsembleID
	if len(ranking) > 0 {
		best = ranking[0]
	}

	return &CompareModelsOutput{
		Models:    comparisons,
		BestModel: best,
		Ranking:   ranking,
	}, nil
}

func (h comparisonServiceHandler) displayName(id string) string {
	if id == model.EnsembleID {
		return "Weighted Ensemble"
	}
	if forecaster, ok := h.Registry.Lookup(id); ok {
		return forecaster.Name()
	}
	return id
}

// rankByMAE orders scored models best-first. Unscored models don't rank.
func rankByMAE(comparisons []ModelComparison) []string {
	scored := []ModelComparison{}
	for _, c := range comparisons {
		if c.Metrics != nil && c.Metrics.MAE != nil {
			scored = append(scored, c)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].Metrics.MAE < *scored[j].Metrics.MAE
	})

	ranking := make([]string, len(scored))
	for i, c := range scored {
		ranking[i] = c.ModelID
	}
	return ranking
}
