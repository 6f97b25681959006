package service

import (
	"fmt"
	"sort"
	"strings"

	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

// GenerateForecastSummary renders the markdown summary attached to a
// forecast response.
func GenerateForecastSummary(points []domain.ForecastDataPoint, series domain.HistoricalSeries, modelsUsed []string, scenario string) string {
	forecastValues := make([]float64, len(points))
	for i, p := range points {
		forecastValues[i] = p.PredictedValue
	}

	avgForecast, err := stats.Mean(forecastValues)
	if err != nil {
		return "Forecast summary unavailable."
	}
	avgHistorical, err := stats.Mean(series.Prices())
	if err != nil || avgHistorical == 0 {
		return "Forecast summary unavailable."
	}

	trend := "decreasing"
	if avgForecast > avgHistorical {
		trend = "increasing"
	}
	changePercent := (avgForecast - avgHistorical) / avgHistorical * 100
	if changePercent < 0 {
		changePercent = -changePercent
	}

	recommendation := "Monitor market conditions closely as prices may decline."
	if trend == "increasing" {
		recommendation = "Consider increasing inventory to meet potential higher demand."
	}

	var b strings.Builder
	b.WriteString("# Price Forecast Summary\n\n")
	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "Based on historical demand data, the forecast shows a **%s** trend over the next %d days using %s scenario.\n\n", trend, len(points), scenario)
	b.WriteString("## Key Metrics\n")
	fmt.Fprintf(&b, "- **Average Historical Price**: $%.2f\n", avgHistorical)
	fmt.Fprintf(&b, "- **Average Forecasted Price**: $%.2f\n", avgForecast)
	fmt.Fprintf(&b, "- **Expected Change**: %.1f%% %s\n", changePercent, trend)
	fmt.Fprintf(&b, "- **Models Used**: %s\n", strings.Join(modelsUsed, ", "))
	fmt.Fprintf(&b, "- **Forecast Horizon**: %d days\n\n", len(points))
	b.WriteString("## Analysis\n")
	b.WriteString("The forecast combines multiple statistical and machine learning models to provide reliable predictions. Confidence intervals are included to help assess prediction uncertainty.\n\n")
	b.WriteString("## Recommendations\n")
	b.WriteString(recommendation + "\n")
	b.WriteString("Track actual prices against this forecast and adjust strategies accordingly.\n")
	return b.String()
}

// GenerateComparisonSummary renders the markdown ranking table for a
// model comparison run.
func GenerateComparisonSummary(comparisons []ModelComparison, ranking []string, bestModel string) string {
	byID := map[string]ModelComparison{}
	for _, c := range comparisons {
		byID[c.ModelID] = c
	}

	var b strings.Builder
	b.WriteString("## Model Comparison Results\n\n")

	if best, ok := byID[bestModel]; ok && best.Metrics != nil && best.Metrics.MAE != nil {
		fmt.Fprintf(&b, "**Best Model:** %s\n", best.ModelName)
		fmt.Fprintf(&b, "- MAE: %.2f\n", *best.Metrics.MAE)
		if best.Metrics.RMSE != nil {
			fmt.Fprintf(&b, "- RMSE: %.2f\n", *best.Metrics.RMSE)
		}
		if best.Metrics.MAPE != nil {
			fmt.Fprintf(&b, "- MAPE: %.2f%%\n", *best.Metrics.MAPE)
		}
		if best.Metrics.RSquared != nil {
			fmt.Fprintf(&b, "- R²: %.4f\n", *best.Metrics.RSquared)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Model Rankings (by MAE)\n\n")
	b.WriteString("| Rank | Model | MAE | RMSE | MAPE (%) | R² |\n")
	b.WriteString("|------|-------|-----|------|----------|----|\n")
	for i, id := range ranking {
		c, ok := byID[id]
		if !ok || c.Metrics == nil || c.Metrics.MAE == nil {
			continue
		}
		mape := "N/A"
		if c.Metrics.MAPE != nil {
			mape = fmt.Sprintf("%.2f", *c.Metrics.MAPE)
		}
		r2 := "N/A"
		if c.Metrics.RSquared != nil {
			r2 = fmt.Sprintf("%.4f", *c.Metrics.RSquared)
		}
		rmse := "N/A"
		if c.Metrics.RMSE != nil {
			rmse = fmt.Sprintf("%.2f", *c.Metrics.RMSE)
		}
		fmt.Fprintf(&b, "| %d | %s | %.2f | %s | %s | %s |\n", i+1, c.ModelName, *c.Metrics.MAE, rmse, mape, r2)
	}

	weighted := []ModelComparison{}
	for _, c := range comparisons {
		if c.Weight > 0 {
			weighted = append(weighted, c)
		}
	}
	if len(weighted) > 0 {
		b.WriteString("\n### Ensemble Weights\n")
		sort.SliceStable(weighted, func(i, j int) bool {
			return weighted[i].Weight > weighted[j].Weight
		})
		for _, c := range weighted {
			fmt.Fprintf(&b, "- %s: %.1f%%\n", c.ModelName, c.Weight*100)
		}
	}

	return b.String()
}
