package service

import (
	"math"
	"time"

	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

// RevenueProjection is the projected revenue for one forecast day, a pure
// multiplication over the forecast output.
type RevenueProjection struct {
	Date              time.Time
	ProjectedQuantity float64
	SellingPrice      float64
	ProjectedRevenue  float64
	ConfidenceLower   *float64
	ConfidenceUpper   *float64
}

// CalculateRevenueProjection projects revenue from the forecast using the
// average historical quantity as the expected daily volume.
func CalculateRevenueProjection(points []domain.ForecastDataPoint, sellingPrice float64, series domain.HistoricalSeries) []RevenueProjection {
	avgQuantity, err := stats.Mean(series.Quantities())
	if err != nil {
		return nil
	}

	out := make([]RevenueProjection, 0, len(points))
	for _, point := range points {
		projection := RevenueProjection{
			Date:              point.Date,
			ProjectedQuantity: round2(avgQuantity),
			SellingPrice:      round2(sellingPrice),
			ProjectedRevenue:  round2(avgQuantity * sellingPrice),
		}
		if point.ConfidenceLower != nil {
			projection.ConfidenceLower = floatPtr(round2(*point.ConfidenceLower * avgQuantity))
		}
		if point.ConfidenceUpper != nil {
			projection.ConfidenceUpper = floatPtr(round2(*point.ConfidenceUpper * avgQuantity))
		}
		out = append(out, projection)
	}
	return out
}

// CalculateOverallConfidence converts interval width relative to the
// prediction into a 0-100 score, averaged over every point that carries
// both bounds. Nil when no point does.
func CalculateOverallConfidence(points []domain.ForecastDataPoint) *float64 {
	scores := []float64{}
	for _, point := range points {
		if point.ConfidenceLower == nil || point.ConfidenceUpper == nil || point.PredictedValue == 0 {
			continue
		}
		width := (*point.ConfidenceUpper - *point.ConfidenceLower) / point.PredictedValue
		score := 100 - width*50
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		scores = append(scores, score)
	}
	if len(scores) == 0 {
		return nil
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return nil
	}
	rounded := round1(mean)
	return &rounded
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
