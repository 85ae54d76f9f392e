package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

type AppConfig struct {
	Port string

	// HTTPTimeout bounds every outbound call to the geocoding and weather APIs.
	HTTPTimeout time.Duration

	LogLevel  string
	LogFormat string

	// Upstream endpoints; empty means the public Open-Meteo URLs.
	GeocodingURL string
	ArchiveURL   string
	ForecastURL  string

	// GoogleGeocoderAPIKey switches geocoding to Google when set.
	GoogleGeocoderAPIKey string

	// Circuit breaker per upstream endpoint.
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration

	// RefreshInterval and RefreshCities drive the optional periodic refresh.
	// Nothing is stored; each run just logs a fresh summary.
	RefreshInterval time.Duration
	RefreshCities   []string
}

// Load reads configuration from environment with sensible defaults.
// A .env file, if any, should be loaded by the caller beforehand.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:                 sharedcfg.EnvOrDefault("PORT", "8080"),
		LogLevel:             sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		GeocodingURL:         os.Getenv("GEOCODING_URL"),
		ArchiveURL:           os.Getenv("ARCHIVE_URL"),
		ForecastURL:          os.Getenv("FORECAST_URL"),
		GoogleGeocoderAPIKey: os.Getenv("GOOGLE_GEOCODER_API_KEY"),
		BreakerMaxRequests:   uint32(getenvInt("BREAKER_MAX_REQUESTS", 5)),
		RefreshCities:        sharedcfg.ParseBrokers(os.Getenv("REFRESH_CITIES")),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.BreakerInterval, err = getenvDuration("BREAKER_INTERVAL", "1m"); err != nil {
		return nil, err
	}
	if cfg.BreakerTimeout, err = getenvDuration("BREAKER_TIMEOUT", "2m"); err != nil {
		return nil, err
	}
	// 0 disables the refresh job.
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: must be positive")
	}
	if cfg.RefreshInterval < 0 {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: must not be negative")
	}
	if cfg.RefreshInterval > 0 && cfg.RefreshInterval < time.Minute {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: must be at least 1m")
	}

	return cfg, nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
