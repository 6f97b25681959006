package api

import (
	"context"
	"fmt"
	"time"

	"agripredict/internal/domain"
	"agripredict/internal/logger"
	"agripredict/internal/service"
	"agripredict/internal/util"

	"github.com/gin-gonic/gin"
)

type forecastRequest struct {
	ProductID         string       `json:"product_id"`
	HistoricalData    []demandData `json:"historical_data"`
	Days              int          `json:"days"`
	SellingPrice      *float64     `json:"selling_price"`
	DateFrom          string       `json:"date_from"`
	DateTo            string       `json:"date_to"`
	Models            []string     `json:"models"`
	IncludeConfidence *bool        `json:"include_confidence"`
	Scenario          string       `json:"scenario"`
}

type forecastDataPointResponse struct {
	Date            string   `json:"date"`
	PredictedValue  float64  `json:"predicted_value"`
	ConfidenceLower *float64 `json:"confidence_lower,omitempty"`
	ConfidenceUpper *float64 `json:"confidence_upper,omitempty"`
	ModelUsed       string   `json:"model_used"`
}

type revenueProjectionResponse struct {
	Date              string   `json:"date"`
	ProjectedQuantity float64  `json:"projected_quantity"`
	SellingPrice      float64  `json:"selling_price"`
	ProjectedRevenue  float64  `json:"projected_revenue"`
	ConfidenceLower   *float64 `json:"confidence_lower,omitempty"`
	ConfidenceUpper   *float64 `json:"confidence_upper,omitempty"`
}

type forecastResponse struct {
	ForecastData      []forecastDataPointResponse `json:"forecast_data"`
	RevenueProjection []revenueProjectionResponse `json:"revenue_projection,omitempty"`
	ModelsUsed        []string                    `json:"models_used"`
	Summary           string                      `json:"summary"`
	Confidence        *float64                    `json:"confidence"`
	Scenario          string                      `json:"scenario"`
	Metadata          gin.H                       `json:"metadata"`
}

const maxForecastDays = 365

func (m ApiHandler) forecast(c *gin.Context) {
	var requestBody forecastRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}

	if requestBody.Days < 1 || requestBody.Days > maxForecastDays {
		m.returnErrorJsonCode(fmt.Errorf("days must be between 1 and %d", maxForecastDays), c, 400)
		return
	}

	series, err := processHistoricalData(requestBody.HistoricalData, requestBody.DateFrom, requestBody.DateTo)
	if err != nil {
		m.returnErrorJsonCode(err, c, 400)
		return
	}
	if len(series) < 3 {
		m.returnErrorJsonCode(fmt.Errorf("insufficient historical data. Need at least 3 data points"), c, 400)
		return
	}

	models := requestBody.Models
	if len(models) == 0 {
		models = []string{"ensemble"}
	}
	logger.FromContext(c).Infow("forecast request",
		"productID", requestBody.ProductID,
		"days", requestBody.Days,
		"models", models,
		"dataPoints", len(series),
	)
	includeConfidence := true
	if requestBody.IncludeConfidence != nil {
		includeConfidence = *requestBody.IncludeConfidence
	}

	out, err := m.ForecastService.GenerateForecast(context.Background(), service.GenerateForecastInput{
		Series:            series,
		Horizon:           requestBody.Days,
		Models:            models,
		IncludeConfidence: includeConfidence,
		Scenario:          requestBody.Scenario,
		CalculateMetrics:  true,
	})
	if err != nil {
		m.returnErrorJson(err, c)
		return
	}

	response := forecastResponse{
		ForecastData: toForecastDataResponse(out.ForecastData),
		ModelsUsed:   out.ModelsUsed,
		Summary:      service.GenerateForecastSummary(out.ForecastData, series, out.ModelsUsed, out.Scenario),
		Confidence:   service.CalculateOverallConfidence(out.ForecastData),
		Scenario:     out.Scenario,
		Metadata: gin.H{
			"product_id":       requestBody.ProductID,
			"data_points":      len(series),
			"forecast_horizon": requestBody.Days,
			"scenario":         out.Scenario,
			"generated_at":     time.Now().UTC().Format(time.RFC3339),
		},
	}

	if requestBody.SellingPrice != nil && *requestBody.SellingPrice > 0 {
		projections := service.CalculateRevenueProjection(out.ForecastData, *requestBody.SellingPrice, series)
		response.RevenueProjection = toRevenueResponse(projections)
	}

	c.JSON(200, response)
}

func toForecastDataResponse(points []domain.ForecastDataPoint) []forecastDataPointResponse {
	out := make([]forecastDataPointResponse, len(points))
	for i, point := range points {
		out[i] = forecastDataPointResponse{
			Date:            util.FormatDate(point.Date),
			PredictedValue:  point.PredictedValue,
			ConfidenceLower: point.ConfidenceLower,
			ConfidenceUpper: point.ConfidenceUpper,
			ModelUsed:       point.ModelUsed,
		}
	}
	return out
}

func toRevenueResponse(projections []service.RevenueProjection) []revenueProjectionResponse {
	out := make([]revenueProjectionResponse, len(projections))
	for i, projection := range projections {
		out[i] = revenueProjectionResponse{
			Date:              util.FormatDate(projection.Date),
			ProjectedQuantity: projection.ProjectedQuantity,
			SellingPrice:      projection.SellingPrice,
			ProjectedRevenue:  projection.ProjectedRevenue,
			ConfidenceLower:   projection.ConfidenceLower,
			ConfidenceUpper:   projection.ConfidenceUpper,
		}
	}
	return out
}
