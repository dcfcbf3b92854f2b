package leagueservice

import (
	"context"
	"log/slog"

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

// LeagueService implements the Service interface.
type LeagueService struct {
	repo      leaguedb.Repository
	fixtures  FixtureFinder
	gameweek  GameweekStatus
	codes     func() (string, error)
	clock     clock.Clock
	publisher message.Publisher
	logger    *slog.Logger
	metrics   observability.OperationMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewLeagueService creates a new LeagueService. publisher may be nil.
func NewLeagueService(
	repo leaguedb.Repository,
	fixtures FixtureFinder,
	gameweek GameweekStatus,
	codes func() (string, error),
	clk clock.Clock,
	publisher message.Publisher,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &LeagueService{
		repo:      repo,
		fixtures:  fixtures,
		gameweek:  gameweek,
		codes:     codes,
		clock:     clk,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

func (s *LeagueService) publish(ctx context.Context, events ...handlerwrapper.Result) {
	if err := handlerwrapper.PublishAll(ctx, s.publisher, events); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish league events",
			attr.ExtractCorrelationID(ctx),
			attr.Int("events", len(events)),
			attr.Error(err),
		)
	}
}

func withTelemetry[S any, F any](s *LeagueService, ctx context.Context, operationName, identifier string, op operation.Func[S, F]) (results.OperationResult[S, F], error) {
	return operation.Run(operation.Telemetry{
		Service: "LeagueService",
		Logger:  s.logger,
		Metrics: s.metrics,
		Tracer:  s.tracer,
	}, ctx, operationName, identifier, op)
}

func runInTx[S any, F any](s *LeagueService, ctx context.Context, fn operation.TxFunc[S, F]) (results.OperationResult[S, F], error) {
	return operation.InTx(ctx, s.db, fn)
}
