package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// OpenMeteoGeocoder implements weather.Geocoder using the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoGeocoder creates a geocoder. An empty baseURL uses the public endpoint.
func NewOpenMeteoGeocoder(httpCfg HTTPClientConfig, baseURL string, breaker BreakerConfig) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &OpenMeteoGeocoder{
		baseURL: baseURL,
		httpCfg: httpCfg,
		circuit: newBreaker("openmeteo-geocoding", breaker),
	}
}

// Search sends name to the API untouched and returns the ranked matches.
func (g *OpenMeteoGeocoder) Search(ctx context.Context, name string, count int) ([]weather.Location, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("name", name)
		values.Set("count", strconv.Itoa(count))
		values.Set("format", "json")

		u := fmt.Sprintf("%s?%s", g.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, g.httpCfg, g.circuit, "geocoding", buildRequest)
	if err != nil {
		return nil, &weather.LookupError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	// The API omits "results" entirely when nothing matches.
	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
			Country   string  `json:"country"`
			Timezone  string  `json:"timezone"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &weather.LookupError{Name: name, Err: fmt.Errorf("decode response: %w", err)}
	}

	locs := make([]weather.Location, 0, len(payload.Results))
	for _, r := range payload.Results {
		locs = append(locs, weather.Location{
			Name:      r.Name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Country:   r.Country,
			Timezone:  r.Timezone,
		})
	}
	return locs, nil
}
