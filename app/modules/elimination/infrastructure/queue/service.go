// Package eliminationqueue schedules the league sweeps on River.
package eliminationqueue

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	eliminationservice "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/application"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

// QueueService is the contract of the sweep scheduler.
type QueueService interface {
	// Enqueue queues the named sweep to run as soon as a worker is free.
	Enqueue(ctx context.Context, sweep string) (int64, error)
	// HealthCheck verifies the queue database is reachable.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Config controls the River client and its periodic jobs.
type Config struct {
	DSN              string
	Location         *time.Location
	Periodic         bool
	WinnerInterval   time.Duration
	GameweekInterval time.Duration
	RolloverInterval time.Duration
	MaxWorkers       int
}

// Service runs sweeps on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	metrics observability.OperationMetrics
}

// NewService connects to Postgres and builds the River client. Periodic jobs
// are registered only when cfg.Periodic is set.
func NewService(ctx context.Context, cfg Config, runner Runner, logger *slog.Logger, metrics observability.OperationMetrics) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_sweep_queue_service"),
		attr.String("component", "river_queue"),
	)
	ctxLogger.Info("Initializing sweep queue service")

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewSweepWorker(ctxLogger, runner))

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	riverConfig := &river.Config{
		Logger: ctxLogger,
		Queues: map[string]river.QueueConfig{
			QueueSweeps: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	}
	if cfg.Periodic {
		riverConfig.PeriodicJobs = PeriodicJobs(cfg)
	}

	client, err := river.NewClient(riverpgxv5.New(pool), riverConfig)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	ctxLogger.Info("Sweep queue service initialized",
		attr.Bool("periodic", cfg.Periodic),
		attr.Int("max_workers", maxWorkers),
	)
	return &Service{client: client, pool: pool, logger: ctxLogger, metrics: metrics}, nil
}

// periodicSweep is one entry of the sweep schedule.
type periodicSweep struct {
	Sweep    string
	Schedule river.PeriodicSchedule
	Opts     *river.PeriodicJobOpts
}

// sweepSchedule lists winners, the gameweek check and the rollover on fixed
// intervals, and the deadline sweep at Friday 00:05 local time. The rollover
// also fires at Tuesday 00:05 so survivors reopen as the window closes; the
// interval catches results that land after that.
func sweepSchedule(cfg Config) []periodicSweep {
	every := func(d, fallback time.Duration) time.Duration {
		if d <= 0 {
			return fallback
		}
		return d
	}

	return []periodicSweep{
		{Sweep: eliminationservice.SweepWinners, Schedule: river.PeriodicInterval(every(cfg.WinnerInterval, 15*time.Minute))},
		{Sweep: eliminationservice.SweepGameweek, Schedule: river.PeriodicInterval(every(cfg.GameweekInterval, time.Hour)), Opts: &river.PeriodicJobOpts{RunOnStart: true}},
		{Sweep: eliminationservice.SweepDeadline, Schedule: WeeklySchedule{Weekday: time.Friday, Hour: 0, Minute: 5, Location: cfg.Location}},
		{Sweep: eliminationservice.SweepRollover, Schedule: WeeklySchedule{Weekday: time.Tuesday, Hour: 0, Minute: 5, Location: cfg.Location}},
		{Sweep: eliminationservice.SweepRollover, Schedule: river.PeriodicInterval(every(cfg.RolloverInterval, 15*time.Minute))},
	}
}

// PeriodicJobs turns the sweep schedule into River periodic jobs.
func PeriodicJobs(cfg Config) []*river.PeriodicJob {
	schedule := sweepSchedule(cfg)
	jobs := make([]*river.PeriodicJob, 0, len(schedule))
	for _, p := range schedule {
		name := p.Sweep
		jobs = append(jobs, river.NewPeriodicJob(p.Schedule, func() (river.JobArgs, *river.InsertOpts) {
			return SweepArgs{Sweep: name}, nil
		}, p.Opts))
	}
	return jobs
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	s.logger.Info("Starting sweep queue service")
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	return nil
}

// Stop waits for running sweeps and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	s.logger.Info("Stopping sweep queue service")
	defer s.pool.Close()
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	return nil
}

// Enqueue queues a sweep and returns the River job id.
func (s *Service) Enqueue(ctx context.Context, sweep string) (int64, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "enqueue_sweep", "river")
	defer func() {
		s.metrics.RecordOperationDuration(ctx, "enqueue_sweep", "river", time.Since(start))
	}()

	if !slices.Contains(eliminationservice.SweepNames, sweep) {
		s.metrics.RecordOperationFailure(ctx, "enqueue_sweep", "river")
		return 0, apperrors.ErrNotFound.WithReason("unknown sweep %q", sweep)
	}

	res, err := s.client.Insert(ctx, SweepArgs{Sweep: sweep}, nil)
	if err != nil {
		s.metrics.RecordOperationFailure(ctx, "enqueue_sweep", "river")
		return 0, fmt.Errorf("failed to enqueue sweep %s: %w", sweep, err)
	}
	s.metrics.RecordOperationSuccess(ctx, "enqueue_sweep", "river")

	s.logger.InfoContext(ctx, "Sweep enqueued",
		attr.ExtractCorrelationID(ctx),
		attr.String("sweep", sweep),
		attr.Int64("job_id", res.Job.ID),
		attr.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return res.Job.ID, nil
}

// HealthCheck pings the queue database.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
