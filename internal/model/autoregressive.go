package model

import (
	"fmt"
	"math"

	"agripredict/internal/domain"

	"github.com/montanaflynn/stats"
)

const arOrder = 5

type autoregressive struct{}

// NewAutoregressive returns an ARIMA(5,1,0)-style model: an order-5
// autoregression fit by least squares on the first differences of the
// price series. A degenerate fit is reported as a PredictionError so the
// caller can record the failure - there is no silent substitute here.
func NewAutoregressive() Forecaster {
	return autoregressive{}
}

func (autoregressive) Name() string { return "Autoregressive" }

func (autoregressive) MinSamples() int { return 10 }

func (m autoregressive) Forecast(series domain.HistoricalSeries, horizon int, wantConfidence bool) (*domain.ForecastResult, error) {
	if len(series) < m.MinSamples() {
		return nil, InsufficientDataError{Model: m.Name(), Need: m.MinSamples(), Have: len(series)}
	}

	prices := series.Prices()
	diffs := make([]float64, len(prices)-1)
	for i := range diffs {
		diffs[i] = prices[i+1] - prices[i]
	}

	coefs, residuals, err := fitAR(diffs, arOrder)
	if err != nil {
		return nil, PredictionError{Model: m.Name(), Err: err}
	}

	// iterate the fitted recurrence forward, feeding each predicted
	// difference back in as the next lag
	lags := append([]float64{}, diffs...)
	values := make([]float64, horizon)
	last := prices[len(prices)-1]
	for i := 0; i < horizon; i++ {
		next := 0.0
		for j := 0; j < arOrder; j++ {
			next += coefs[j] * lags[len(lags)-1-j]
		}
		lags = append(lags, next)
		last += next
		values[i] = last
	}

	result := &domain.ForecastResult{
		Values:    values,
		ModelName: m.Name(),
	}

	if wantConfidence {
		width := residualStdev(residuals)
		if width <= 0 {
			if fallback, err := stats.StandardDeviationSample(prices); err == nil {
				width = fallback
			}
		}
		result.ConfidenceLower = make([]float64, horizon)
		result.ConfidenceUpper = make([]float64, horizon)
		for i, v := range values {
			stepWidth := width * math.Sqrt(float64(i+1))
			result.ConfidenceLower[i] = v - stepWidth
			result.ConfidenceUpper[i] = v + stepWidth
		}
	}

	return result, nil
}

// fitAR estimates AR coefficients on the given sequence via regularized
// normal equations. Returns the coefficients and in-sample residuals.
func fitAR(seq []float64, order int) ([]float64, []float64, error) {
	rows := len(seq) - order
	if rows < 1 {
		return nil, nil, fmt.Errorf("need more than %d observations to fit order-%d autoregression", order, order)
	}

	// normal equations A c = b with A = X'X, b = X'y
	a := make([][]float64, order)
	b := make([]float64, order)
	for i := range a {
		a[i] = make([]float64, order)
	}
	for t := order; t < len(seq); t++ {
		for i := 0; i < order; i++ {
			xi := seq[t-1-i]
			b[i] += xi * seq[t]
			for j := 0; j < order; j++ {
				a[i][j] += xi * seq[t-1-j]
			}
		}
	}

	// small ridge term keeps collinear lag structures (e.g. a perfectly
	// linear price series) solvable
	trace := 0.0
	for i := 0; i < order; i++ {
		trace += a[i][i]
	}
	ridge := 1e-8 * (trace/float64(order) + 1)
	for i := 0; i < order; i++ {
		a[i][i] += ridge
	}

	coefs, err := solveLinearSystem(a, b)
	if err != nil {
		return nil, nil, err
	}

	residuals := make([]float64, 0, rows)
	for t := order; t < len(seq); t++ {
		pred := 0.0
		for i := 0; i < order; i++ {
			pred += coefs[i] * seq[t-1-i]
		}
		residuals = append(residuals, seq[t]-pred)
	}

	return coefs, residuals, nil
}

// solveLinearSystem solves Ax = b by Gaussian elimination with partial
// pivoting. A is modified in place.
func solveLinearSystem(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-12 {
			return nil, fmt.Errorf("singular system at column %d", col)
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		for row := col + 1; row < n; row++ {
			factor := a[row][col] / a[col][col]
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			b[row] -= factor * b[col]
		}
	}

	x := make([]float64, n)
	for row := n - 1; row >= 0; row-- {
		sum := b[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}

	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("non-finite coefficient in solution")
		}
	}

	return x, nil
}
