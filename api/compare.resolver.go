package api

import (
	"context"
	"fmt"
	"time"

	"agripredict/internal/domain"
	"agripredict/internal/service"

	"github.com/gin-gonic/gin"
)

type comparisonRequest struct {
	ProductID       string       `json:"product_id"`
	HistoricalData  []demandData `json:"historical_data"`
	Days            int          `json:"days"`
	IncludeEnsemble *bool        `json:"include_ensemble"`
}

type modelComparisonResponse struct {
	ModelID           string                      `json:"model_id"`
	ModelName         string                      `json:"model_name"`
	ForecastData      []forecastDataPointResponse `json:"forecast_data"`
	Metrics           *domain.AccuracyMetrics     `json:"metrics"`
	Weight            float64                     `json:"weight"`
	ComputationTimeMs *float64                    `json:"computation_time_ms"`
}

type comparisonResponse struct {
	Models    []modelComparisonResponse `json:"models"`
	BestModel string                    `json:"best_model"`
	Ranking   []string                  `json:"ranking"`
	Summary   string                    `json:"summary"`
	Metadata  gin.H                     `json:"metadata"`
}

const maxComparisonDays = 90

func (m ApiHandler) compare(c *gin.Context) {
	var requestBody comparisonRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	if requestBody.Days < 1 || requestBody.Days > maxComparisonDays {
		m.returnErrorJsonCode(fmt.Errorf("days must be between 1 and %d", maxComparisonDays), c, 400)
		return
	}

	series, err := processHistoricalData(requestBody.HistoricalData, "", "")
	if err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}
	if len(series) < 7 {
		m.returnErrorJsonCode(fmt.Errorf("model comparison requires at least 7 historical data points for holdout validation"), c, 400)
		return
	}

	includeEnsemble := true
	if requestBody.IncludeEnsemble != nil {
		includeEnsemble = *requestBody.IncludeEnsemble
	}

	out, err := m.ComparisonService.CompareModels(context.Background(), service.CompareModelsInput{
		Series:          series,
		Horizon:         requestBody.Days,
		IncludeEnsemble: includeEnsemble,
	})
	if err != nil {
		m.returnErrorJson(err, c)
		return
	}

	models := make([]modelComparisonResponse, len(out.Models))
	for i, comparison := range out.Models {
		models[i] = modelComparisonResponse{
			ModelID:           comparison.ModelID,
			ModelName:         comparison.ModelName,
			ForecastData:      toForecastDataResponse(comparison.ForecastData),
			Metrics:           comparison.Metrics,
			Weight:            comparison.Weight,
			ComputationTimeMs: comparison.ComputationTimeMs,
		}
	}

	c.JSON(200, comparisonResponse{
		Models:    models,
		BestModel: out.BestModel,
		Ranking:   out.Ranking,
		Summary:   service.GenerateComparisonSummary(out.Models, out.Ranking, out.BestModel),
		Metadata: gin.H{
			"product_id":       requestBody.ProductID,
			"data_points":      len(series),
			"forecast_horizon": requestBody.Days,
			"models_compared":  len(models),
			"generated_at":     time.Now().UTC().Format(time.RFC3339),
		},
	})
}
