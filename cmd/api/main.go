package main

import (
	"log"
	"os"

	"agripredict/api"
	"agripredict/internal/config"
	"agripredict/internal/logger"
	"agripredict/internal/model"
	"agripredict/internal/repository"
	"agripredict/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional, real deploys set the environment directly
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New()
	defer func() {
		_ = zlog.Sync()
	}()

	var predictor model.Predictor
	artifact, err := repository.LoadModelArtifact(cfg.Forecast.ArtifactPath)
	if err != nil {
		zlog.Warnw("trained artifact unusable, gradient-boosted model will use trend fallback", "error", err)
	} else if artifact == nil {
		zlog.Infow("no trained artifact found, gradient-boosted model will use trend fallback", "path", cfg.Forecast.ArtifactPath)
	} else {
		predictor = artifact
		zlog.Infow("loaded trained artifact", "path", cfg.Forecast.ArtifactPath, "features", len(artifact.Features), "trees", len(artifact.Trees))
	}

	registry := model.NewRegistry(predictor)

	executor := service.NewExecutor(cfg.Forecast.Workers)
	executor.Start()
	defer executor.Stop()

	forecastService := service.NewForecastService(registry, executor, zlog)
	comparisonService := service.NewComparisonService(forecastService, registry, zlog)

	apiHandler := api.ApiHandler{
		ForecastService:   forecastService,
		ComparisonService: comparisonService,
		Logger:            zlog,
	}

	zlog.Infow("starting analysis service", "port", cfg.Server.Port, "environment", cfg.Environment)
	if err := apiHandler.StartApi(cfg.Server.Port); err != nil {
		zlog.Fatal(err)
	}
}
