package api

import (
	"github.com/gin-gonic/gin"
)

type modelInfoResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

func (m ApiHandler) listModels(c *gin.Context) {
	c.JSON(200, gin.H{
		"models": []modelInfoResponse{
			{
				ID:          "ensemble",
				Name:        "Ensemble (Recommended)",
				Description: "Combines multiple models for best accuracy",
				Type:        "ensemble",
			},
			{
				ID:          "short-average",
				Name:        "Short Average",
				Description: "Mean of the most recent week of prices",
				Type:        "statistical",
			},
			{
				ID:          "weighted-average",
				Name:        "Weighted Average",
				Description: "Recent data weighted more",
				Type:        "statistical",
			},
			{
				ID:          "exponential-smoothing",
				Name:        "Exponential Smoothing",
				Description: "Seasonal trend analysis",
				Type:        "statistical",
			},
			{
				ID:          "autoregressive",
				Name:        "Autoregressive",
				Description: "Statistical time series model",
				Type:        "statistical",
			},
			{
				ID:          "gradient-boosted",
				Name:        "Gradient Boosted",
				Description: "Machine learning model",
				Type:        "ml",
			},
		},
	})
}
