package weather

import (
	"context"
)

// Geocoder resolves free-text place names to coordinates.
type Geocoder interface {
	// Search returns up to count candidates in the provider's ranking order.
	// An empty slice with a nil error means nothing matched.
	Search(ctx context.Context, name string, count int) ([]Location, error)
}

// Fetcher abstracts a daily weather source (e.g. Open-Meteo archive + forecast).
// Both methods return records in provider order along with the provider's
// resolved timezone name.
type Fetcher interface {
	FetchHistorical(ctx context.Context, lat, lon float64, r DateRange) ([]DailyRecord, string, error)
	FetchForecast(ctx context.Context, lat, lon float64) ([]DailyRecord, string, error)
}

// Recorder receives pipeline outcomes. A nil Recorder is skipped.
type Recorder interface {
	ObservePipeline(operation, outcome string)
}
