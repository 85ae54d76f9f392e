package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.GeocodingURL)
	assert.Empty(t, cfg.GoogleGeocoderAPIKey)
	assert.Equal(t, uint32(5), cfg.BreakerMaxRequests)
	assert.Equal(t, time.Minute, cfg.BreakerInterval)
	assert.Equal(t, 2*time.Minute, cfg.BreakerTimeout)
	assert.Zero(t, cfg.RefreshInterval)
	assert.Empty(t, cfg.RefreshCities)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("GEOCODING_URL", "http://localhost:1/search")
	t.Setenv("ARCHIVE_URL", "http://localhost:1/archive")
	t.Setenv("FORECAST_URL", "http://localhost:1/forecast")
	t.Setenv("GOOGLE_GEOCODER_API_KEY", "g-key")
	t.Setenv("BREAKER_MAX_REQUESTS", "2")
	t.Setenv("BREAKER_TIMEOUT", "30s")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("REFRESH_CITIES", "Hyderabad, Berlin ,,São Paulo")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "http://localhost:1/search", cfg.GeocodingURL)
	assert.Equal(t, "http://localhost:1/archive", cfg.ArchiveURL)
	assert.Equal(t, "http://localhost:1/forecast", cfg.ForecastURL)
	assert.Equal(t, "g-key", cfg.GoogleGeocoderAPIKey)
	assert.Equal(t, uint32(2), cfg.BreakerMaxRequests)
	assert.Equal(t, 30*time.Second, cfg.BreakerTimeout)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, []string{"Hyderabad", "Berlin", "São Paulo"}, cfg.RefreshCities)
}

func TestLoad_InvalidDurations(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"HTTP_TIMEOUT", "soon", "HTTP_TIMEOUT"},
		{"HTTP_TIMEOUT", "-1s", "HTTP_TIMEOUT"},
		{"BREAKER_INTERVAL", "x", "BREAKER_INTERVAL"},
		{"BREAKER_TIMEOUT", "x", "BREAKER_TIMEOUT"},
		{"REFRESH_INTERVAL", "10s", "REFRESH_INTERVAL"},
		{"REFRESH_INTERVAL", "-5m", "REFRESH_INTERVAL"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("BREAKER_MAX_REQUESTS", "lots")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, uint32(5), cfg.BreakerMaxRequests)
}
