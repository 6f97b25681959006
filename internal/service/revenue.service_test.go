package service

import (
	"testing"

	"agripredict/internal/domain"
	"agripredict/internal/util"

	"github.com/stretchr/testify/require"
)

func TestCalculateRevenueProjection(t *testing.T) {
	series := testSeries(10, 12, 14) // quantities fixed at 100
	points := []domain.ForecastDataPoint{
		{
			Date:            util.NewDate(2024, 1, 4),
			PredictedValue:  12,
			ConfidenceLower: floatPtr(10),
			ConfidenceUpper: floatPtr(14),
		},
		{
			Date:           util.NewDate(2024, 1, 5),
			PredictedValue: 13,
		},
	}

	projections := CalculateRevenueProjection(points, 2.5, series)

	require.Len(t, projections, 2)
	require.InDelta(t, 100.0, projections[0].ProjectedQuantity, 1e-9)
	require.InDelta(t, 2.5, projections[0].SellingPrice, 1e-9)
	require.InDelta(t, 250.0, projections[0].ProjectedRevenue, 1e-9)
	require.NotNil(t, projections[0].ConfidenceLower)
	require.InDelta(t, 1000.0, *projections[0].ConfidenceLower, 1e-9)
	require.NotNil(t, projections[0].ConfidenceUpper)
	require.InDelta(t, 1400.0, *projections[0].ConfidenceUpper, 1e-9)

	require.Nil(t, projections[1].ConfidenceLower)
	require.Nil(t, projections[1].ConfidenceUpper)
}

func TestCalculateOverallConfidence(t *testing.T) {
	t.Run("scores narrow intervals higher", func(t *testing.T) {
		narrow := []domain.ForecastDataPoint{
			{PredictedValue: 100, ConfidenceLower: floatPtr(95), ConfidenceUpper: floatPtr(105)},
		}
		wide := []domain.ForecastDataPoint{
			{PredictedValue: 100, ConfidenceLower: floatPtr(50), ConfidenceUpper: floatPtr(150)},
		}

		narrowScore := CalculateOverallConfidence(narrow)
		wideScore := CalculateOverallConfidence(wide)

		require.NotNil(t, narrowScore)
		require.NotNil(t, wideScore)
		// widths 0.1 and 1.0 of the prediction
		require.InDelta(t, 95.0, *narrowScore, 1e-9)
		require.InDelta(t, 50.0, *wideScore, 1e-9)
	})

	t.Run("clamps to the 0-100 range", func(t *testing.T) {
		points := []domain.ForecastDataPoint{
			{PredictedValue: 10, ConfidenceLower: floatPtr(-100), ConfidenceUpper: floatPtr(100)},
		}
		score := CalculateOverallConfidence(points)
		require.NotNil(t, score)
		require.InDelta(t, 0.0, *score, 1e-9)
	})

	t.Run("nil when no point has both bounds", func(t *testing.T) {
		points := []domain.ForecastDataPoint{
			{PredictedValue: 10},
			{PredictedValue: 12, ConfidenceLower: floatPtr(11)},
		}
		require.Nil(t, CalculateOverallConfidence(points))
	})
}
