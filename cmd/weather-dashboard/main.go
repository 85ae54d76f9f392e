package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/observability"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

type cli struct {
	Serve   serveCmd   `cmd:"" default:"1" help:"Run the HTTP API (default)."`
	Show    showCmd    `cmd:"" help:"Print the historical and forecast dashboard for a place."`
	Geocode geocodeCmd `cmd:"" help:"List geocoding candidates for a place."`
}

// app holds everything the commands share.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	metrics *observability.Metrics
	service *weather.Service
	clock   clockwork.Clock
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	var c cli
	kctx := kong.Parse(&c,
		kong.Name("weather-dashboard"),
		kong.Description("Resolve a place, fetch its daily weather and derive dashboard metrics."),
		kong.UsageOnError(),
	)

	a, err := newApp()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	kctx.FatalIfErrorf(kctx.Run(a))
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg)
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	// Shared HTTP client for outbound provider calls.
	httpCfg := providers.HTTPClientConfig{
		Client:   &http.Client{Timeout: cfg.HTTPTimeout},
		Observer: metrics,
	}
	breaker := providers.BreakerConfig{
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
	}

	var geo weather.Geocoder
	if cfg.GoogleGeocoderAPIKey != "" {
		geo = providers.NewGoogleGeocoder(cfg.GoogleGeocoderAPIKey)
		log.Info("geocoding via google")
	} else {
		geo = providers.NewOpenMeteoGeocoder(httpCfg, cfg.GeocodingURL, breaker)
		log.Info("geocoding via open-meteo")
	}
	fetcher := providers.NewOpenMeteoProvider(httpCfg, cfg.ArchiveURL, cfg.ForecastURL, breaker)

	return &app{
		cfg:     cfg,
		logger:  log,
		metrics: metrics,
		service: weather.NewService(geo, fetcher, log, metrics),
		clock:   clockwork.NewRealClock(),
	}, nil
}

// newLogger builds the process logger; it also becomes the slog default.
func newLogger(cfg *config.AppConfig) *slog.Logger {
	return sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "weather-dashboard")
}

type serveCmd struct{}

func (serveCmd) Run(a *app) error {
	sched := scheduler.New(a.cfg.RefreshCities, a.cfg.RefreshInterval, a.service, a.clock, a.logger, a.metrics.RefreshRuns)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	server := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Two upstream calls in sequence, each bounded by HTTPTimeout.
		WriteTimeout: 3*a.cfg.HTTPTimeout + 5*time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	server.Use(logger.New())
	server.Use(recover.New())

	server.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})
	server.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(server, a.service, a.clock)

	go func() {
		a.logger.Info("starting server", "port", a.cfg.Port)
		if err := server.Listen(":" + a.cfg.Port); err != nil {
			a.logger.Error("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		a.logger.Error("error during shutdown", "error", err)
	}
	a.logger.Info("shutdown complete")
	return nil
}

type showCmd struct {
	City  string `arg:"" help:"Place name, passed to the geocoder as typed."`
	Start string `help:"First historical day (YYYY-MM-DD). Defaults to a week ago." placeholder:"DATE"`
	End   string `help:"Last historical day (YYYY-MM-DD). Defaults to today." placeholder:"DATE"`
}

func (s showCmd) Run(a *app) error {
	r, err := s.dateRange(a.clock.Now())
	if err != nil {
		return err
	}

	report, err := a.service.Dashboard(context.Background(), weather.Request{Place: s.City, Range: r})
	if err != nil {
		return err
	}
	return renderReport(os.Stdout, report)
}

func (s showCmd) dateRange(now time.Time) (weather.DateRange, error) {
	r := weather.DefaultRange(now)
	if s.Start != "" {
		t, err := time.Parse(weather.DateLayout, s.Start)
		if err != nil {
			return r, fmt.Errorf("invalid --start: %w", err)
		}
		r.Start = t
	}
	if s.End != "" {
		t, err := time.Parse(weather.DateLayout, s.End)
		if err != nil {
			return r, fmt.Errorf("invalid --end: %w", err)
		}
		r.End = t
	}
	if r.End.Before(r.Start) {
		return r, fmt.Errorf("--end must not be before --start")
	}
	return r, nil
}

type geocodeCmd struct {
	City  string `arg:"" help:"Place name."`
	Count int    `help:"Maximum number of candidates." default:"5"`
}

func (g geocodeCmd) Run(a *app) error {
	locs, err := a.service.Candidates(context.Background(), g.City, g.Count)
	if err != nil {
		return err
	}
	return renderCandidates(os.Stdout, locs)
}
