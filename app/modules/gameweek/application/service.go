package gameweekservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	gameweekdb "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/eventbus"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/operation"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// GameweekService implements the Service interface.
type GameweekService struct {
	repo         gameweekdb.Repository
	fixtures     FixtureCounter
	calc         gameweekdomain.Calculator
	minTeamSides int
	clock        clock.Clock
	publisher    message.Publisher
	logger       *slog.Logger
	metrics      observability.OperationMetrics
	tracer       trace.Tracer
	db           *bun.DB
}

// NewGameweekService creates a new GameweekService. publisher may be nil.
func NewGameweekService(
	repo gameweekdb.Repository,
	fixtures FixtureCounter,
	calc gameweekdomain.Calculator,
	minTeamSides int,
	clk clock.Clock,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *GameweekService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &GameweekService{
		repo:         repo,
		fixtures:     fixtures,
		calc:         calc,
		minTeamSides: minTeamSides,
		clock:        clk,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
		tracer:       tracer,
		db:           db,
	}
}

func (s *GameweekService) Calculator() gameweekdomain.Calculator {
	return s.calc
}

func (s *GameweekService) Status(ctx context.Context, db bun.IDB, at time.Time) (gameweekdomain.Status, error) {
	window := s.calc.Window(at)
	count, err := s.fixtures.CountScheduled(ctx, db, window.Start, window.End)
	if err != nil {
		return gameweekdomain.Status{}, fmt.Errorf("failed to count fixtures in window %s: %w", window.Key(), err)
	}
	return gameweekdomain.EvaluateStatus(s.calc, at, count, s.minTeamSides), nil
}

func (s *GameweekService) CurrentStatus(ctx context.Context) (gameweekdomain.Status, error) {
	return s.Status(ctx, nil, s.clock.Now())
}

func (s *GameweekService) CheckGameweek(ctx context.Context) (results.OperationResult[gameweekdomain.Status, error], error) {
	now := s.clock.Now()
	changed := false

	result, err := withTelemetry(s, ctx, "CheckGameweek", s.calc.Window(now).Key(), func(ctx context.Context) (results.OperationResult[gameweekdomain.Status, error], error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[gameweekdomain.Status, error], error) {
			status, c, err := s.checkGameweekLogic(ctx, db, now)
			if err != nil {
				return results.OperationResult[gameweekdomain.Status, error]{}, err
			}
			changed = c
			return results.SuccessResult[gameweekdomain.Status, error](status), nil
		})
	})
	if err != nil || !changed {
		return result, err
	}

	status := *result.Success
	s.publish(ctx, gameweekdomain.StatusChangedPayloadV1{
		WindowStart:  status.Window.Start,
		WindowEnd:    status.Window.End,
		FixtureCount: status.FixtureCount,
		Active:       status.Active,
	})
	return result, nil
}

// checkGameweekLogic computes the status and writes the cache row, reporting
// whether the active flag differs from the previously cached value.
func (s *GameweekService) checkGameweekLogic(ctx context.Context, db bun.IDB, now time.Time) (gameweekdomain.Status, bool, error) {
	status, err := s.Status(ctx, db, now)
	if err != nil {
		return gameweekdomain.Status{}, false, err
	}

	previous, err := s.repo.GetState(ctx, db, status.Window.Start)
	if err != nil && !errors.Is(err, gameweekdb.ErrNotFound) {
		return gameweekdomain.Status{}, false, fmt.Errorf("failed to read cached gameweek state: %w", err)
	}
	changed := previous == nil || previous.Active != status.Active

	if err := s.repo.UpsertState(ctx, db, &gameweekdb.GameweekState{
		WindowStart:  status.Window.Start,
		WindowEnd:    status.Window.End,
		FixtureCount: status.FixtureCount,
		Active:       status.Active,
		CheckedAt:    now.UTC(),
	}); err != nil {
		return gameweekdomain.Status{}, false, err
	}
	return status, changed, nil
}

func (s *GameweekService) publish(ctx context.Context, payload gameweekdomain.StatusChangedPayloadV1) {
	if s.publisher == nil {
		return
	}
	if err := eventbus.PublishJSON(ctx, s.publisher, gameweekdomain.TopicStatusChangedV1, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish gameweek status change",
			attr.ExtractCorrelationID(ctx),
			attr.Error(err),
		)
	}
}

func withTelemetry[S any, F any](s *GameweekService, ctx context.Context, operationName, identifier string, op operation.Func[S, F]) (results.OperationResult[S, F], error) {
	return operation.Run(operation.Telemetry{
		Service: "GameweekService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}, ctx, operationName, identifier, op)
}

func runInTx[S any, F any](s *GameweekService, ctx context.Context, fn operation.TxFunc[S, F]) (results.OperationResult[S, F], error) {
	return operation.InTx(ctx, s.db, fn)
}
