package eliminationqueue

import (
	"context"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/riverqueue/river"
)

const sweepJobTimeout = 10 * time.Minute

// Runner runs a sweep by name.
type Runner interface {
	Run(ctx context.Context, name string) (any, error)
}

// SweepWorker executes SweepArgs jobs.
type SweepWorker struct {
	river.WorkerDefaults[SweepArgs]
	runner Runner
	logger *slog.Logger
}

func NewSweepWorker(logger *slog.Logger, runner Runner) *SweepWorker {
	return &SweepWorker{runner: runner, logger: logger}
}

// Timeout bounds a whole sweep; each league unit has its own shorter timeout.
func (w *SweepWorker) Timeout(*river.Job[SweepArgs]) time.Duration {
	return sweepJobTimeout
}

func (w *SweepWorker) Work(ctx context.Context, job *river.Job[SweepArgs]) error {
	logger := w.logger.With(
		attr.String("sweep", job.Args.Sweep),
		attr.Int64("job_id", job.ID),
		attr.Int("attempt", job.Attempt),
	)

	summary, err := w.runner.Run(ctx, job.Args.Sweep)
	if err != nil {
		if e, ok := apperrors.As(err); ok && e.Kind == apperrors.KindNotFound {
			logger.ErrorContext(ctx, "Unknown sweep, cancelling job", attr.Error(err))
			return river.JobCancel(err)
		}
		logger.ErrorContext(ctx, "Sweep failed", attr.Error(err))
		return err
	}

	logger.InfoContext(ctx, "Sweep completed", attr.Any("summary", summary))
	return nil
}
