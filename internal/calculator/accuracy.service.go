package calculator

import (
	"math"

	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

// CalculateAccuracyMetrics scores predictions against true holdout values.
// yTrain is the training prefix the predictions were fit on and is only
// needed for MASE; pass nil to skip it. Metrics that are undefined for the
// given data stay nil on the result.
func CalculateAccuracyMetrics(yTrue, yPred, yTrain []float64) *domain.AccuracyMetrics {
	yTrue, yPred = dropNonFinitePairs(yTrue, yPred)
	if len(yTrue) == 0 || len(yTrue) != len(yPred) {
		return &domain.AccuracyMetrics{}
	}

	n := float64(len(yTrue))
	out := &domain.AccuracyMetrics{}

	sumAbs := 0.0
	sumSq := 0.0
	sumSigned := 0.0
	for i := range yTrue {
		err := yPred[i] - yTrue[i]
		sumAbs += math.Abs(err)
		sumSq += err * err
		sumSigned += err
	}

	mae := sumAbs / n
	out.MAE = round4(mae)
	out.RMSE = round4(math.Sqrt(sumSq / n))
	out.Bias = round4(sumSigned / n)

	// MAPE over points with non-zero true value
	pctSum := 0.0
	pctCount := 0
	for i := range yTrue {
		if yTrue[i] != 0 {
			pctSum += math.Abs((yTrue[i] - yPred[i]) / yTrue[i])
			pctCount++
		}
	}
	if pctCount > 0 {
		out.MAPE = round4(pctSum / float64(pctCount) * 100)
	}

	// MASE scales MAE by the naive one-step error on the training series
	if len(yTrain) > 1 {
		naiveSum := 0.0
		for i := 1; i < len(yTrain); i++ {
			naiveSum += math.Abs(yTrain[i] - yTrain[i-1])
		}
		scaling := naiveSum / float64(len(yTrain)-1)
		if scaling > 0 {
			out.MASE = round4(mae / scaling)
		}
	}

	if mean, err := stats.Mean(yTrue); err == nil {
		ssTot := 0.0
		for _, v := range yTrue {
			ssTot += (v - mean) * (v - mean)
		}
		if ssTot > 0 {
			out.RSquared = round4(1 - sumSq/ssTot)
		}
	}

	return out
}

func dropNonFinitePairs(yTrue, yPred []float64) ([]float64, []float64) {
	if len(yTrue) != len(yPred) {
		return yTrue, yPred
	}
	outTrue := make([]float64, 0, len(yTrue))
	outPred := make([]float64, 0, len(yPred))
	for i := range yTrue {
		if isFinite(yTrue[i]) && isFinite(yPred[i]) {
			outTrue = append(outTrue, yTrue[i])
			outPred = append(outPred, yPred[i])
		}
	}
	return outTrue, outPred
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func round4(v float64) *float64 {
	rounded := math.Round(v*1e4) / 1e4
	return &rounded
}
