package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

const (
	DefaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// dailyFields is the fixed field list requested in both modes.
var dailyFields = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"precipitation_sum",
	"wind_speed_10m_max",
}

// OpenMeteoProvider implements weather.Fetcher against the Open-Meteo
// archive (historical) and forecast APIs.
type OpenMeteoProvider struct {
	archiveURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	archiveCB   *gobreaker.CircuitBreaker
	forecastCB  *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates a provider. Empty URLs fall back to the public endpoints.
func NewOpenMeteoProvider(httpCfg HTTPClientConfig, archiveURL, forecastURL string, breaker BreakerConfig) *OpenMeteoProvider {
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	return &OpenMeteoProvider{
		archiveURL:  archiveURL,
		forecastURL: forecastURL,
		httpCfg:     httpCfg,
		archiveCB:   newBreaker("openmeteo-archive", breaker),
		forecastCB:  newBreaker("openmeteo-forecast", breaker),
	}
}

// FetchHistorical requests the inclusive date range from the archive API.
func (p *OpenMeteoProvider) FetchHistorical(ctx context.Context, lat, lon float64, r weather.DateRange) ([]weather.DailyRecord, string, error) {
	values := dailyQuery(lat, lon)
	values.Set("start_date", r.Start.Format(weather.DateLayout))
	values.Set("end_date", r.End.Format(weather.DateLayout))
	return p.fetchDaily(ctx, "archive", p.archiveURL, values, p.archiveCB)
}

// FetchForecast requests the provider's default forecast horizon.
func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, lat, lon float64) ([]weather.DailyRecord, string, error) {
	return p.fetchDaily(ctx, "forecast", p.forecastURL, dailyQuery(lat, lon), p.forecastCB)
}

func dailyQuery(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("daily", strings.Join(dailyFields, ","))
	values.Set("timezone", "auto")
	return values
}

func (p *OpenMeteoProvider) fetchDaily(
	ctx context.Context,
	endpoint, baseURL string,
	values url.Values,
	cb *gobreaker.CircuitBreaker,
) ([]weather.DailyRecord, string, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, cb, endpoint, buildRequest)
	if err != nil {
		return nil, "", fmt.Errorf("openmeteo %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	var payload dailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, "", fmt.Errorf("openmeteo %s: %w: decode: %v", endpoint, weather.ErrDataUnavailable, err)
	}

	records, err := payload.normalize()
	if err != nil {
		return nil, "", fmt.Errorf("openmeteo %s: %w", endpoint, err)
	}
	return records, payload.Timezone, nil
}

// dailyResponse is the parallel-array shape shared by the archive and forecast APIs.
type dailyResponse struct {
	Timezone string       `json:"timezone"`
	Daily    *dailyArrays `json:"daily"`
}

type dailyArrays struct {
	Time           []string   `json:"time"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
	Precipitation  []*float64 `json:"precipitation_sum"`
	WindSpeedMax   []*float64 `json:"wind_speed_10m_max"`
}

// normalize turns the parallel arrays into one record per day, in the order
// returned. A missing array, a length mismatch or a bad date fails the whole
// response rather than producing a partial table.
func (r dailyResponse) normalize() ([]weather.DailyRecord, error) {
	d := r.Daily
	if d == nil {
		return nil, fmt.Errorf("%w: no daily block", weather.ErrDataUnavailable)
	}
	if len(d.Time) == 0 {
		return nil, fmt.Errorf("%w: empty daily series", weather.ErrDataUnavailable)
	}

	columns := map[string][]*float64{
		"temperature_2m_max": d.TemperatureMax,
		"temperature_2m_min": d.TemperatureMin,
		"precipitation_sum":  d.Precipitation,
		"wind_speed_10m_max": d.WindSpeedMax,
	}
	for _, name := range dailyFields {
		col := columns[name]
		if col == nil {
			return nil, fmt.Errorf("%w: missing %s", weather.ErrDataUnavailable, name)
		}
		if len(col) != len(d.Time) {
			return nil, fmt.Errorf("%w: %s has %d values for %d days", weather.ErrDataUnavailable, name, len(col), len(d.Time))
		}
	}

	records := make([]weather.DailyRecord, 0, len(d.Time))
	for i, ts := range d.Time {
		date, err := time.Parse(weather.DateLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: time[%d]=%q: %v", weather.ErrDataUnavailable, i, ts, err)
		}
		records = append(records, weather.DailyRecord{
			Date:       date,
			MaxTempC:   d.TemperatureMax[i],
			MinTempC:   d.TemperatureMin[i],
			RainfallMM: d.Precipitation[i],
			MaxWindKPH: d.WindSpeedMax[i],
		})
	}
	return records, nil
}
