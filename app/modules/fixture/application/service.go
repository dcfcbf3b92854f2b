package fixtureservice

import (
	"context"
	"log/slog"

	fixturedb "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/repositories"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
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

// FixtureService implements the Service interface.
type FixtureService struct {
	repo      fixturedb.Repository
	applier   TransitionApplier
	calc      gameweekdomain.Calculator
	clock     clock.Clock
	publisher message.Publisher
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewFixtureService creates a new FixtureService. publisher may be nil.
func NewFixtureService(
	repo fixturedb.Repository,
	applier TransitionApplier,
	calc gameweekdomain.Calculator,
	clk clock.Clock,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *FixtureService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &FixtureService{
		repo:      repo,
		applier:   applier,
		calc:      calc,
		clock:     clk,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

func (s *FixtureService) publish(ctx context.Context, events []handlerwrapper.Result) {
	if err := handlerwrapper.PublishAll(ctx, s.publisher, events); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish fixture events",
			attr.ExtractCorrelationID(ctx),
			attr.Int("events", len(events)),
			attr.Error(err),
		)
	}
}

func (s *FixtureService) recordItem(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.RecordBatchItem(ctx, "fixture_feed", outcome)
	}
}

func withTelemetry[S any, F any](s *FixtureService, ctx context.Context, operationName, identifier string, op operation.Func[S, F]) (results.OperationResult[S, F], error) {
	return operation.Run(operation.Telemetry{
		Service: "FixtureService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}, ctx, operationName, identifier, op)
}

func runInTx[S any, F any](s *FixtureService, ctx context.Context, fn operation.TxFunc[S, F]) (results.OperationResult[S, F], error) {
	return operation.InTx(ctx, s.db, fn)
}
