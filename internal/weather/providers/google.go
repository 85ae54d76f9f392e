package providers

import (
	"context"
	"net/url"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// GoogleGeocoder implements weather.Geocoder with the Google Geocoding API.
// Google only ever yields its single best match, so count is ignored.
type GoogleGeocoder struct {
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder configures the geocoder package with apiKey.
// The key is process-wide in that package; only one Google backend can exist.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{lookup: geocoder.Geocoding}
}

func (g *GoogleGeocoder) Search(ctx context.Context, name string, _ int) ([]weather.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, &weather.LookupError{Name: name, Err: err}
	}

	// The geocoder package splices the address into its URL unescaped.
	loc, err := g.lookup(geocoder.Address{City: url.QueryEscape(name)})
	if err != nil {
		if isZeroResults(err) {
			return []weather.Location{}, nil
		}
		return nil, &weather.LookupError{Name: name, Err: err}
	}

	return []weather.Location{{
		Name:      name,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}}, nil
}

func isZeroResults(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "zero_results") || strings.Contains(msg, "no results")
}
