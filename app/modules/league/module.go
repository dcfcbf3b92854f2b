package league

import (
	"context"
	"log/slog"
	"sync"

	leagueservice "github.com/Black-And-White-Club/last-man-standing/app/modules/league/application"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	leaguehandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/handlers"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
	"github.com/uptrace/bun"
)

// Module represents the league module.
type Module struct {
	LeagueService leagueservice.Service
	handlers      *leaguehandlers.LeagueHandlers
	logger        *slog.Logger
	cancelFunc    context.CancelFunc
}

// NewLeagueModule creates and initializes a new league module.
func NewLeagueModule(
	ctx context.Context,
	obs observability.Observability,
	metrics observability.OperationMetrics,
	repo leaguedb.Repository,
	fixtures leagueservice.FixtureFinder,
	gameweek leagueservice.GameweekStatus,
	clk clock.Clock,
	publisher message.Publisher,
	rnd *render.Render,
	db *bun.DB,
) *Module {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "league.NewLeagueModule initializing")

	service := leagueservice.NewLeagueService(repo, fixtures, gameweek, leaguedomain.NewJoinCode, clk, publisher, logger, metrics, tracer, db)

	return &Module{
		LeagueService: service,
		handlers:      leaguehandlers.NewLeagueHandlers(service, rnd, logger),
		logger:        logger,
	}
}

// MountRoutes registers the league endpoints on an authenticated router.
func (m *Module) MountRoutes(r chi.Router) {
	m.handlers.Routes(r)
}

// Run starts the league module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting league module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "League module goroutine stopped")
}

// Close shuts down the league module.
func (m *Module) Close() error {
	m.logger.Info("Stopping league module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("League module stopped")
	return nil
}
