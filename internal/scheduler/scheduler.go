package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Scheduler periodically rebuilds the dashboard for configured cities and
// logs the headline numbers. Results are not kept between runs.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	cities    []string
	interval  time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	runs      prometheus.Counter
}

// New creates a new Scheduler. runs may be nil.
func New(cities []string, interval time.Duration, service *weather.Service, clock clockwork.Clock, logger *slog.Logger, runs prometheus.Counter) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		cities:    cities,
		interval:  interval,
		clock:     clock,
		logger:    logger,
		runs:      runs,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.cities) == 0 || s.interval <= 0 {
		s.logger.Info("scheduler: refresh disabled")
		return nil
	}

	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("scheduler: refresh enabled", "cities", s.cities, "every_minutes", minutes)
	return nil
}

// RunOnce builds the dashboard for every city in turn.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.logger.Info("scheduler: running refresh job")
	if s.runs != nil {
		s.runs.Inc()
	}

	r := weather.DefaultRange(s.clock.Now())
	for _, city := range s.cities {
		report, err := s.service.Dashboard(ctx, weather.Request{Place: city, Range: r})
		if err != nil {
			s.logger.Warn("scheduler: refresh failed", "city", city, "error", err)
			continue
		}
		s.logSection(city, report.Historical)
		s.logSection(city, report.Forecast)
	}
	s.logger.Info("scheduler: completed refresh job")
}

func (s *Scheduler) logSection(city string, sec weather.Section) {
	if sec.Err != nil || sec.Summary == nil {
		s.logger.Warn("scheduler: section unavailable", "city", city, "error", sec.Error)
		return
	}
	attrs := []any{"city", city, "mode", sec.Series.Mode, "days", sec.Summary.Days}
	if sec.Summary.MeanAvgTempC != nil {
		attrs = append(attrs, "mean_avg_temp_c", *sec.Summary.MeanAvgTempC)
	}
	if sec.Summary.TotalRainfallMM != nil {
		attrs = append(attrs, "total_rainfall_mm", *sec.Summary.TotalRainfallMM)
	}
	s.logger.Info("scheduler: summary", attrs...)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
