package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

type stubGeocoder struct {
	locs []weather.Location
	err  error
}

func (g stubGeocoder) Search(_ context.Context, _ string, count int) ([]weather.Location, error) {
	if g.err != nil {
		return nil, g.err
	}
	if count < len(g.locs) {
		return g.locs[:count], nil
	}
	return g.locs, nil
}

type stubFetcher struct {
	days        int
	err         error
	gotRange    weather.DateRange
	forecastHit bool
}

func (f *stubFetcher) series() []weather.DailyRecord {
	out := make([]weather.DailyRecord, f.days)
	for i := range out {
		hi, lo, rain, wind := 30.0+float64(i), 20.0, 1.0, 10.0
		out[i] = weather.DailyRecord{
			Date:       time.Date(2024, time.June, 1+i, 0, 0, 0, 0, time.UTC),
			MaxTempC:   &hi,
			MinTempC:   &lo,
			RainfallMM: &rain,
			MaxWindKPH: &wind,
		}
	}
	return out
}

func (f *stubFetcher) FetchHistorical(_ context.Context, _, _ float64, r weather.DateRange) ([]weather.DailyRecord, string, error) {
	f.gotRange = r
	if f.err != nil {
		return nil, "", f.err
	}
	return f.series(), "UTC", nil
}

func (f *stubFetcher) FetchForecast(context.Context, float64, float64) ([]weather.DailyRecord, string, error) {
	f.forecastHit = true
	if f.err != nil {
		return nil, "", f.err
	}
	return f.series(), "UTC", nil
}

var berlin = weather.Location{Name: "Berlin", Latitude: 52.52, Longitude: 13.41, Country: "Germany"}

func newTestApp(g weather.Geocoder, f weather.Fetcher) *fiber.App {
	app := fiber.New()
	svc := weather.NewService(g, f, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
	clock := clockwork.NewFakeClockAt(time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC))
	RegisterRoutes(app, svc, clock)
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	return resp
}

func TestHistorical_DefaultRange(t *testing.T) {
	f := &stubFetcher{days: 8}
	app := newTestApp(stubGeocoder{locs: []weather.Location{berlin}}, f)

	resp := doGet(t, app, "/api/v1/historical?city=Berlin")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, time.Date(2024, time.June, 8, 0, 0, 0, 0, time.UTC), f.gotRange.Start)
	assert.Equal(t, time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC), f.gotRange.End)

	var body struct {
		Series  weather.EnrichedSeries `json:"series"`
		Summary weather.SummaryStats   `json:"summary"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Series.Records, 8)
	assert.Nil(t, body.Series.Records[1].MovingAvgC)
	assert.NotNil(t, body.Series.Records[2].MovingAvgC)
	assert.Equal(t, 8, body.Summary.Days)
	assert.Equal(t, 37.0, *body.Summary.MaxTempC)
	assert.Equal(t, 8.0, *body.Summary.TotalRainfallMM)
}

func TestHistorical_ExplicitRange(t *testing.T) {
	f := &stubFetcher{days: 2}
	app := newTestApp(stubGeocoder{locs: []weather.Location{berlin}}, f)

	resp := doGet(t, app, "/api/v1/historical?city=Berlin&start=2024-01-01&end=2024-01-02")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), f.gotRange.Start)
	assert.Equal(t, time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC), f.gotRange.End)
}

func TestHistorical_QueryValidation(t *testing.T) {
	app := newTestApp(stubGeocoder{locs: []weather.Location{berlin}}, &stubFetcher{days: 3})

	for _, target := range []string{
		"/api/v1/historical",
		"/api/v1/historical?city=Berlin&start=2024-01-05",
		"/api/v1/historical?city=Berlin&start=2024-01-05&end=2024-01-01",
		"/api/v1/historical?city=Berlin&start=05/01/2024&end=2024-01-06",
		"/api/v1/dashboard?start=2024-01-01&end=2024-01-02",
	} {
		resp := doGet(t, app, target)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
	}
}

func TestForecast(t *testing.T) {
	f := &stubFetcher{days: 10}
	app := newTestApp(stubGeocoder{locs: []weather.Location{berlin}}, f)

	resp := doGet(t, app, "/api/v1/forecast?city=Berlin")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Series weather.EnrichedSeries `json:"series"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Series.Records, 10)
	assert.Equal(t, weather.ModeForecast, body.Series.Mode)
	for _, r := range body.Series.Records {
		assert.Nil(t, r.MovingAvgC)
	}

	resp = doGet(t, app, "/api/v1/forecast")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		g      weather.Geocoder
		f      *stubFetcher
		target string
		want   int
	}{
		{"not found", stubGeocoder{}, &stubFetcher{days: 3}, "/api/v1/forecast?city=Nowhere", http.StatusNotFound},
		{"lookup failed", stubGeocoder{err: errors.New("dial tcp: timeout")}, &stubFetcher{days: 3}, "/api/v1/dashboard?city=Berlin", http.StatusBadGateway},
		{"data unavailable", stubGeocoder{locs: []weather.Location{berlin}}, &stubFetcher{err: weather.ErrDataUnavailable}, "/api/v1/historical?city=Berlin", http.StatusBadGateway},
		{"empty series", stubGeocoder{locs: []weather.Location{berlin}}, &stubFetcher{days: 0}, "/api/v1/forecast?city=Berlin", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(tt.g, tt.f)
			resp := doGet(t, app, tt.target)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestDashboard_NotFoundSkipsFetches(t *testing.T) {
	f := &stubFetcher{days: 3}
	app := newTestApp(stubGeocoder{}, f)

	resp := doGet(t, app, "/api/v1/dashboard?city=Qwxzzy")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, f.forecastHit)
	assert.True(t, f.gotRange.Start.IsZero())
}

func TestDashboard_PartialFailureStillRenders(t *testing.T) {
	f := &stubFetcher{err: weather.ErrDataUnavailable}
	app := newTestApp(stubGeocoder{locs: []weather.Location{berlin}}, f)

	resp := doGet(t, app, "/api/v1/dashboard?city=Berlin")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report weather.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 52.52, report.Location.Latitude)
	assert.Contains(t, report.Historical.Error, "weather data unavailable")
	assert.Contains(t, report.Forecast.Error, "weather data unavailable")
}

func TestGeocode(t *testing.T) {
	second := weather.Location{Name: "Berlin", Latitude: 44.46, Longitude: -71.18, Country: "United States"}
	app := newTestApp(stubGeocoder{locs: []weather.Location{berlin, second}}, &stubFetcher{})

	resp := doGet(t, app, "/api/v1/geocode?city=Berlin&count=5")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Results []weather.Location `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Germany", body.Results[0].Country)

	resp = doGet(t, app, "/api/v1/geocode?city=Berlin&count=0")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
