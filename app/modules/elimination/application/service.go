package eliminationservice

import (
	"context"
	"log/slog"
	"time"

	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/operation"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

const defaultUnitTimeout = 10 * time.Second

// EliminationService implements the Service interface.
type EliminationService struct {
	leagues     leaguedb.Repository
	fixtures    FixtureReader
	gameweek    GameweekStatus
	clock       clock.Clock
	publisher   message.Publisher
	unitTimeout time.Duration
	logger      *slog.Logger
	metrics     observability.OperationMetrics
	tracer      trace.Tracer
	db          *bun.DB
}

// NewEliminationService creates a new EliminationService. publisher may be nil.
func NewEliminationService(
	leagues leaguedb.Repository,
	fixtures FixtureReader,
	gameweek GameweekStatus,
	clk clock.Clock,
	publisher message.Publisher,
	unitTimeout time.Duration,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *EliminationService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if unitTimeout <= 0 {
		unitTimeout = defaultUnitTimeout
	}
	return &EliminationService{
		leagues:     leagues,
		fixtures:    fixtures,
		gameweek:    gameweek,
		clock:       clk,
		publisher:   publisher,
		unitTimeout: unitTimeout,
		logger:      logger,
		metrics:     metrics,
		tracer:      tracer,
		db:          db,
	}
}

func (s *EliminationService) publish(ctx context.Context, events []handlerwrapper.Result) {
	if err := handlerwrapper.PublishAll(ctx, s.publisher, events); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish elimination events",
			attr.ExtractCorrelationID(ctx),
			attr.Int("events", len(events)),
			attr.Error(err),
		)
	}
}

func (s *EliminationService) recordItem(ctx context.Context, batch, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordBatchItem(ctx, batch, outcome)
	}
}

func withTelemetry[S any, F any](s *EliminationService, ctx context.Context, operationName, identifier string, op operation.Func[S, F]) (results.OperationResult[S, F], error) {
	return operation.Run(operation.Telemetry{
		Service: "EliminationService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}, ctx, operationName, identifier, op)
}

func runInTx[S any, F any](s *EliminationService, ctx context.Context, fn operation.TxFunc[S, F]) (results.OperationResult[S, F], error) {
	return operation.InTx(ctx, s.db, fn)
}
