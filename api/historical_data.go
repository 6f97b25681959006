package api

import (
	"fmt"
	"sort"

	"agripredict/internal/domain"
	"agripredict/internal/util"
)

type demandData struct {
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// processHistoricalData turns raw request records into a validated series:
// parsed dates, positive fields, sorted ascending, duplicate dates
// collapsed to the last occurrence, optionally windowed to [from, to].
func processHistoricalData(records []demandData, dateFrom, dateTo string) (domain.HistoricalSeries, error) {
	series := make(domain.HistoricalSeries, 0, len(records))
	for i, record := range records {
		date, err := util.ParseDate(record.Date)
		if err != nil {
			return nil, fmt.Errorf("record %d has invalid date %q: %w", i, record.Date, err)
		}
		if record.Quantity <= 0 {
			return nil, fmt.Errorf("record %d has non-positive quantity %f", i, record.Quantity)
		}
		if record.Price <= 0 {
			return nil, fmt.Errorf("record %d has non-positive price %f", i, record.Price)
		}
		series = append(series, domain.PricePoint{
			Date:     date,
			Quantity: record.Quantity,
			Price:    record.Price,
		})
	}

	if dateFrom != "" {
		from, err := util.ParseDate(dateFrom)
		if err != nil {
			return nil, fmt.Errorf("invalid date_from %q: %w", dateFrom, err)
		}
		series = filterSeries(series, func(p domain.PricePoint) bool { return !p.Date.Before(from) })
	}
	if dateTo != "" {
		to, err := util.ParseDate(dateTo)
		if err != nil {
			return nil, fmt.Errorf("invalid date_to %q: %w", dateTo, err)
		}
		series = filterSeries(series, func(p domain.PricePoint) bool { return !p.Date.After(to) })
	}

	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	// collapse duplicate dates, keeping the later record
	deduped := make(domain.HistoricalSeries, 0, len(series))
	for _, point := range series {
		if len(deduped) > 0 && deduped[len(deduped)-1].Date.Equal(point.Date) {
			deduped[len(deduped)-1] = point
			continue
		}
		deduped = append(deduped, point)
	}

	return deduped, nil
}

func filterSeries(series domain.HistoricalSeries, keep func(domain.PricePoint) bool) domain.HistoricalSeries {
	out := series[:0:0]
	for _, point := range series {
		if keep(point) {
			out = append(out, point)
		}
	}
	return out
}
