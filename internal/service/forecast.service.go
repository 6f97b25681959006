package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agripredict/internal/calculator"
	"agripredict/internal/domain"
	"agripredict/internal/model"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ForecastGenerationError is the single failure mode callers see. Any
// error inside the pipeline that can't be absorbed surfaces wrapped in
// one of these.
type ForecastGenerationError struct {
	Err error
}

func (e ForecastGenerationError) Error() string {
	return fmt.Sprintf("forecast generation failed: %v", e.Err)
}

func (e ForecastGenerationError) Unwrap() error {
	return e.Err
}

type GenerateForecastInput struct {
	Series            domain.HistoricalSeries
	Horizon           int
	Models            []string
	IncludeConfidence bool
	Scenario          string
	CalculateMetrics  bool
}

type GenerateForecastOutput struct {
	ForecastData []domain.ForecastDataPoint
	ModelsUsed   []string
	Scenario     string
	ModelMetrics map[string]*domain.AccuracyMetrics
	ModelWeights map[string]float64
	Results      map[string]*domain.ForecastResult
}

type ForecastService interface {
	GenerateForecast(ctx context.Context, in GenerateForecastInput) (*GenerateForecastOutput, error)
}

type forecastServiceHandler struct {
	Registry *model.Registry
	Executor *Executor
	Logger   *zap.SugaredLogger
}

func NewForecastService(registry *model.Registry, executor *Executor, logger *zap.SugaredLogger) ForecastService {
	return forecastServiceHandler{
		Registry: registry,
		Executor: executor,
		Logger:   logger,
	}
}

// fallbackID keys the degraded forecast produced when every model fails.
const fallbackID = "fallback"

const minSeriesLength = 3

// callState holds everything derived during one forecast call. Nothing
// here outlives the call, so concurrent calls against the same service
// never share mutable state.
type callState struct {
	metrics map[string]*domain.AccuracyMetrics
	weights map[string]float64
}

func (h forecastServiceHandler) GenerateForecast(ctx context.Context, in GenerateForecastInput) (*GenerateForecastOutput, error) {
	if in.Horizon < 1 {
		return nil, ForecastGenerationError{Err: fmt.Errorf("horizon must be at least 1, got %d", in.Horizon)}
	}
	if len(in.Series) < minSeriesLength {
		return nil, ForecastGenerationError{Err: model.InsufficientDataError{
			Model: "forecast",
			Need:  minSeriesLength,
			Have:  len(in.Series),
		}}
	}

	ids := normalizeModelIDs(in.Models)
	scenario := normalizeScenario(in.Scenario)
	adjusted := in.Series.AdjustPrices(scenarioMultiplier(scenario))

	h.Logger.Infow("generating forecast",
		"horizon", in.Horizon,
		"models", ids,
		"scenario", scenario,
		"dataPoints", len(adjusted),
	)

	state := &callState{
		metrics: map[string]*domain.AccuracyMetrics{},
		weights: map[string]float64{},
	}

	if in.CalculateMetrics && len(adjusted) > in.Horizon+10 {
		h.calculateModelMetrics(adjusted, in.Horizon, ids, state)
	}

	results, order := h.runModels(adjusted, in.Horizon, ids, in.IncludeConfidence)

	if len(results) == 0 {
		h.Logger.Warn("all models failed, using fallback forecast")
		results[fallbackID] = fallbackForecast(adjusted, in.Horizon)
		order = []string{fallbackID}
	}

	if containsID(ids, model.EnsembleID) {
		ensemble, err := buildEnsemble(results, order, in.Horizon, in.IncludeConfidence, state)
		if err != nil {
			h.Logger.Warnw("ensemble aggregation skipped", "error", err)
		} else {
			results[model.EnsembleID] = ensemble
			order = append(order, model.EnsembleID)
		}
	}

	for id, result := range results {
		if w, ok := state.weights[id]; ok {
			result.Weight = w
		}
		if m, ok := state.metrics[id]; ok && result.Metrics == nil {
			result.Metrics = m
		}
	}

	primary := h.choosePrimary(results, order)
	points, err := assembleForecastData(primary, adjusted.LastDate(), in.Horizon)
	if err != nil {
		return nil, ForecastGenerationError{Err: err}
	}

	return &GenerateForecastOutput{
		ForecastData: points,
		ModelsUsed:   order,
		Scenario:     scenario,
		ModelMetrics: state.metrics,
		ModelWeights: state.weights,
		Results:      results,
	}, nil
}

// calculateModelMetrics backtests each requested model on a holdout split:
// the most recent horizon-length suffix is withheld, the model forecasts
// over the prefix, and its predictions are scored against the truth.
// Failures here only cost the model its score - it still runs in the live
// forecast with a default weight.
func (h forecastServiceHandler) calculateModelMetrics(series domain.HistoricalSeries, horizon int, ids []string, state *callState) {
	train := series[:len(series)-horizon]
	holdout := series[len(series)-horizon:]

	if len(train) < 10 {
		h.Logger.Warn("not enough training data for metric calculation")
		return
	}

	yTrue := holdout.Prices()
	yTrain := train.Prices()

	for _, id := range ids {
		if id == model.EnsembleID {
			continue
		}
		forecaster, ok := h.Registry.Lookup(id)
		if !ok {
			continue
		}

		result, err := safeForecast(forecaster, train, horizon, false)
		if err != nil || len(result.Values) == 0 {
			h.Logger.Warnw("model excluded from backtest scoring", "model", id, "error", err)
			state.weights[id] = 1.0
			continue
		}

		yPred := result.Values
		if len(yPred) > len(yTrue) {
			yPred = yPred[:len(yTrue)]
		}
		metrics := calculator.CalculateAccuracyMetrics(yTrue, yPred, yTrain)
		state.metrics[id] = metrics

		// lower error earns a larger share of the ensemble
		if metrics.MAE != nil && *metrics.MAE > 0 {
			state.weights[id] = 1.0 / *metrics.MAE
		} else {
			state.weights[id] = 1.0
		}
	}

	normalizeWeights(state.weights)

	h.Logger.Infow("calculated model weights", "weights", state.weights)
}

type modelRunResult struct {
	id     string
	result *domain.ForecastResult
	err    error
}

// runModels dispatches every requested model onto the shared worker pool
// and joins all of them. A failing model is logged and omitted; it never
// aborts its siblings.
func (h forecastServiceHandler) runModels(series domain.HistoricalSeries, horizon int, ids []string, wantConfidence bool) (map[string]*domain.ForecastResult, []string) {
	resultCh := make(chan modelRunResult, len(ids))
	dispatched := 0

	for _, id := range ids {
		if id == model.EnsembleID {
			continue
		}
		forecaster, ok := h.Registry.Lookup(id)
		if !ok {
			h.Logger.Warnw("unknown model requested", "model", id)
			continue
		}

		id := id
		h.Executor.Submit(func() {
			result, err := safeForecast(forecaster, series, horizon, wantConfidence)
			resultCh <- modelRunResult{id: id, result: result, err: err}
		})
		dispatched++
	}

	results := map[string]*domain.ForecastResult{}
	for i := 0; i < dispatched; i++ {
		run := <-resultCh
		if run.err != nil {
			h.Logger.Warnw("model failed", "model", run.id, "error", run.err)
			continue
		}
		if run.result == nil || len(run.result.Values) == 0 {
			continue
		}
		results[run.id] = run.result
	}

	// key results by request order, not completion order
	order := []string{}
	for _, id := range ids {
		if _, ok := results[id]; ok {
			order = append(order, id)
		}
	}
	return results, order
}

// safeForecast converts a panicking model into an error result so nothing
// escapes the executor boundary.
func safeForecast(f model.Forecaster, series domain.HistoricalSeries, horizon int, wantConfidence bool) (result *domain.ForecastResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = model.PredictionError{Model: f.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return f.Forecast(series, horizon, wantConfidence)
}

// choosePrimary picks the result the assembled output exposes: the
// ensemble when present, else the first requested model that succeeded,
// else the fallback.
func (h forecastServiceHandler) choosePrimary(results map[string]*domain.ForecastResult, order []string) *domain.ForecastResult {
	if ensemble, ok := results[model.EnsembleID]; ok {
		return ensemble
	}
	for _, id := range order {
		if result, ok := results[id]; ok {
			return result
		}
	}
	return nil
}

// assembleForecastData converts the chosen result into dated output
// records, one per forecast day, rounded for presentation.
func assembleForecastData(result *domain.ForecastResult, lastDate time.Time, horizon int) ([]domain.ForecastDataPoint, error) {
	if result == nil {
		return nil, fmt.Errorf("no forecast result to assemble")
	}
	if len(result.Values) < horizon {
		return nil, fmt.Errorf("%s produced %d values for a %d-day horizon", result.ModelName, len(result.Values), horizon)
	}

	points := make([]domain.ForecastDataPoint, 0, horizon)
	for i := 0; i < horizon; i++ {
		point := domain.ForecastDataPoint{
			Date:           lastDate.AddDate(0, 0, i+1),
			PredictedValue: round2(result.Values[i]),
			ModelUsed:      result.ModelName,
		}
		if i < len(result.ConfidenceLower) {
			point.ConfidenceLower = floatPtr(round2(result.ConfidenceLower[i]))
		}
		if i < len(result.ConfidenceUpper) {
			point.ConfidenceUpper = floatPtr(round2(result.ConfidenceUpper[i]))
		}
		points = append(points, point)
	}
	return points, nil
}

func normalizeModelIDs(ids []string) []string {
	if len(ids) == 0 {
		return []string{model.EnsembleID}
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		return []string{model.EnsembleID}
	}
	return out
}

func containsID(ids []string, target string) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func scenarioMultiplier(scenario string) float64 {
	switch scenario {
	case "optimistic":
		return 1.10
	case "pessimistic":
		return 0.90
	default:
		return 1.0
	}
}

func normalizeScenario(scenario string) string {
	switch strings.ToLower(strings.TrimSpace(scenario)) {
	case "optimistic":
		return "optimistic"
	case "pessimistic":
		return "pessimistic"
	default:
		return "realistic"
	}
}

func normalizeWeights(weights map[string]float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return
	}
	for id, w := range weights {
		weights[id] = w / total
	}
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func floatPtr(v float64) *float64 {
	return &v
}
