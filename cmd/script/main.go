package main

import (
	"context"
	"flag"
	"log"
	"os"

	"agripredict/internal/domain"
	"agripredict/internal/logger"
	"agripredict/internal/model"
	"agripredict/internal/service"
	"agripredict/internal/util"

	"github.com/gocarina/gocsv"
)

// offline runner: forecast a CSV series from the command line without
// standing up the API

type csvRecord struct {
	Date     string  `csv:"date"`
	Quantity float64 `csv:"quantity"`
	Price    float64 `csv:"price"`
}

func main() {
	var (
		csvPath  = flag.String("csv", "", "path to a csv with date,quantity,price columns")
		days     = flag.Int("days", 30, "forecast horizon in days")
		scenario = flag.String("scenario", "realistic", "optimistic, realistic or pessimistic")
	)
	flag.Parse()

	if *csvPath == "" {
		log.Fatal("missing -csv flag")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	records := []csvRecord{}
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		log.Fatal(err)
	}

	series := make(domain.HistoricalSeries, 0, len(records))
	for _, record := range records {
		date, err := util.ParseDate(record.Date)
		if err != nil {
			log.Fatal(err)
		}
		series = append(series, domain.PricePoint{
			Date:     date,
			Quantity: record.Quantity,
			Price:    record.Price,
		})
	}

	zlog := logger.New()
	registry := model.NewRegistry(nil)
	executor := service.NewExecutor(4)
	executor.Start()
	defer executor.Stop()

	forecastService := service.NewForecastService(registry, executor, zlog)
	out, err := forecastService.GenerateForecast(context.Background(), service.GenerateForecastInput{
		Series:            series,
		Horizon:           *days,
		Models:            []string{"ensemble"},
		IncludeConfidence: true,
		Scenario:          *scenario,
		CalculateMetrics:  true,
	})
	if err != nil {
		log.Fatal(err)
	}

	util.Pprint(out.ForecastData)
	util.Pprint(out.ModelWeights)
}
