package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/Zwubman/team-work-supply-tracker/pkg/logger"
	"github.com/Zwubman/team-work-supply-tracker/pkg/metrics"
)

// The worker sweeps inventory once an hour unless configured otherwise.
const defaultScanInterval = time.Hour

// ServiceParams configure the scan worker.
type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.CronJobMetrics
	Interval time.Duration
}

// Service drives registered jobs on a fixed cadence. A distributed lock
// keeps concurrent worker replicas from scanning the same inventory twice.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.CronJobMetrics
	interval time.Duration
}

// NewService builds a scan worker service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultScanInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     params.Lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run scans immediately, then on every tick until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.logg.Info(s.logg.WithField(ctx, "interval", s.interval.String()), "scan worker started")

	if err := s.runScan(ctx); err != nil {
		s.logg.Error(ctx, "inventory scan failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "scan worker stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runScan(ctx); err != nil {
				s.logg.Error(ctx, "inventory scan failed", err)
			}
		}
	}
}

// runScan executes one full cycle under the distributed lock. A job failure
// is recorded and logged but never stops the remaining jobs.
func (s *Service) runScan(ctx context.Context) error {
	held, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire scan lock: %w", err)
	}
	if !held {
		s.logg.Info(ctx, "scan skipped: another worker holds the lock")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "release scan lock", relErr)
		}
	}()

	s.logg.Info(ctx, "inventory scan starting")
	for _, job := range s.registry.Jobs() {
		s.executeJob(ctx, job)
	}
	s.logg.Info(ctx, "inventory scan finished")
	return nil
}

func (s *Service) executeJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithFields(ctx, map[string]any{
		"job":   job.Name(),
		"event": "cron.job",
	})

	start := time.Now()
	err := job.Run(jobCtx)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.ObserveDuration(job.Name(), elapsed)
		if err != nil {
			s.metrics.IncFailure(job.Name())
		} else {
			s.metrics.IncSuccess(job.Name())
		}
	}

	jobCtx = s.logg.WithField(jobCtx, "duration_ms", elapsed.Milliseconds())
	if err != nil {
		s.logg.Error(jobCtx, "job failed", err)
		return
	}
	s.logg.Info(jobCtx, "job completed")
}
