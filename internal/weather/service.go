package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Service runs the city → coordinates → series → metrics pipeline.
// It holds no per-request state; every call goes to the providers.
type Service struct {
	geocoder Geocoder
	fetcher  Fetcher
	logger   *slog.Logger
	recorder Recorder
}

// NewService creates a new Service. recorder may be nil.
func NewService(geocoder Geocoder, fetcher Fetcher, logger *slog.Logger, recorder Recorder) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		geocoder: geocoder,
		fetcher:  fetcher,
		logger:   logger,
		recorder: recorder,
	}
}

// Candidates returns up to count ranked matches for name.
func (s *Service) Candidates(ctx context.Context, name string, count int) ([]Location, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be greater than zero")
	}
	locs, err := s.search(ctx, name, count)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, name)
	}
	return locs, nil
}

// Resolve returns the provider's top-ranked match for name. Ambiguous names
// are not disambiguated and no normalisation is applied to the input.
func (s *Service) Resolve(ctx context.Context, name string) (Location, error) {
	locs, err := s.Candidates(ctx, name, 1)
	if err != nil {
		s.observe("geocode", err)
		return Location{}, err
	}
	loc := locs[0]
	loc.Name = name
	s.observe("geocode", nil)
	return loc, nil
}

func (s *Service) search(ctx context.Context, name string, count int) ([]Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty place name", ErrLocationNotFound)
	}
	locs, err := s.geocoder.Search(ctx, name, count)
	if err != nil {
		var lookupErr *LookupError
		if errors.As(err, &lookupErr) || errors.Is(err, ErrLocationNotFound) {
			return nil, err
		}
		return nil, &LookupError{Name: name, Err: err}
	}
	return locs, nil
}

// FetchHistorical retrieves the inclusive range for loc and adds the trend column.
func (s *Service) FetchHistorical(ctx context.Context, loc Location, r DateRange) (EnrichedSeries, error) {
	records, tz, err := s.fetcher.FetchHistorical(ctx, loc.Latitude, loc.Longitude, r)
	if err != nil {
		s.observe("historical", err)
		return EnrichedSeries{}, fmt.Errorf("historical: %w", err)
	}
	s.observe("historical", nil)
	return EnrichedSeries{
		Mode:     ModeHistorical,
		Location: loc,
		Timezone: tz,
		Records:  Enrich(records, true),
	}, nil
}

// FetchForecast retrieves the provider's default forecast horizon for loc.
// However many days come back are accepted; no trend is computed.
func (s *Service) FetchForecast(ctx context.Context, loc Location) (EnrichedSeries, error) {
	records, tz, err := s.fetcher.FetchForecast(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		s.observe("forecast", err)
		return EnrichedSeries{}, fmt.Errorf("forecast: %w", err)
	}
	s.observe("forecast", nil)
	return EnrichedSeries{
		Mode:     ModeForecast,
		Location: loc,
		Timezone: tz,
		Records:  Enrich(records, false),
	}, nil
}

// Dashboard runs the whole pipeline for one request. A geocoding failure is
// returned as the error and no weather calls are made. Otherwise the
// historical and forecast sections run one after the other and fail
// independently, each carrying its own error.
func (s *Service) Dashboard(ctx context.Context, req Request) (Report, error) {
	loc, err := s.Resolve(ctx, req.Place)
	if err != nil {
		s.logger.Warn("location lookup failed", "place", req.Place, "error", err)
		return Report{}, err
	}

	report := Report{Location: loc, Range: req.Range}

	hist, err := s.FetchHistorical(ctx, loc, req.Range)
	report.Historical = s.section(hist, err)

	fc, err := s.FetchForecast(ctx, loc)
	report.Forecast = s.section(fc, err)

	s.logger.Info("dashboard built",
		"place", req.Place,
		"lat", loc.Latitude,
		"lon", loc.Longitude,
		"historical_days", len(hist.Records),
		"forecast_days", len(fc.Records),
	)
	return report, nil
}

func (s *Service) section(series EnrichedSeries, err error) Section {
	if err != nil {
		s.logger.Warn("section unavailable", "error", err)
		return Section{Err: err, Error: err.Error()}
	}
	sec := Section{Series: &series}
	summary, err := Summarize(series.Records)
	if err != nil {
		err = fmt.Errorf("%s: %w", series.Mode, err)
		sec.Err = err
		sec.Error = err.Error()
		return sec
	}
	sec.Summary = &summary
	return sec
}

func (s *Service) observe(operation string, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.ObservePipeline(operation, Outcome(err))
}

// Outcome classifies err into a short label for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrLookupFailed):
		return "lookup_failed"
	case errors.Is(err, ErrLocationNotFound):
		return "not_found"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, ErrEmptySeries):
		return "empty"
	default:
		return "error"
	}
}
