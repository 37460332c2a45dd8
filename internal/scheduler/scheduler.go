package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Lookup produces one weather report.
type Lookup func(ctx context.Context) (weather.Report, error)

// Sink receives the outcome of every scheduled lookup.
type Sink func(report weather.Report, err error)

// Scheduler periodically re-runs a weather lookup.
type Scheduler struct {
	scheduler *gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
	lookup    Lookup
	sink      Sink
	logger    *zap.Logger
}

// New creates a new Scheduler. Each run is bounded by timeout.
func New(interval, timeout time.Duration, lookup Lookup, sink Sink, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		interval:  interval,
		timeout:   timeout,
		lookup:    lookup,
		sink:      sink,
		logger:    logger,
	}
}

// Start runs the lookup immediately and then on every interval.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	_, err := s.scheduler.Every(interval).SingletonMode().Do(func() {
		s.logger.Debug("scheduler: running weather lookup")

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		report, err := s.lookup(ctx)
		if err != nil {
			s.logger.Warn("scheduler: lookup failed", zap.Error(err))
		}
		s.sink(report, err)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
