package gameweek

import (
	"context"
	"log/slog"
	"sync"

	gameweekservice "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/application"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	gameweekhandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/handlers"
	gameweekdb "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
	"github.com/uptrace/bun"
)

// Module represents the gameweek module.
type Module struct {
	GameweekService gameweekservice.Service
	render          *render.Render
	logger          *slog.Logger
	cancelFunc      context.CancelFunc
}

// NewGameweekModule creates the gameweek module. fixtures counts the
// scheduled fixtures of a window.
func NewGameweekModule(
	ctx context.Context,
	obs observability.Observability,
	metrics observability.OperationMetrics,
	repo gameweekdb.Repository,
	fixtures gameweekservice.FixtureCounter,
	calc gameweekdomain.Calculator,
	minTeamSides int,
	clk clock.Clock,
	publisher message.Publisher,
	rnd *render.Render,
	db *bun.DB,
) *Module {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "gameweek.NewGameweekModule initializing")

	service := gameweekservice.NewGameweekService(repo, fixtures, calc, minTeamSides, clk, publisher, logger, metrics, obs.Registry.Tracer, db)

	return &Module{
		GameweekService: service,
		render:          rnd,
		logger:          logger,
	}
}

// MountRoutes registers GET /gameweek.
func (m *Module) MountRoutes(r chi.Router) {
	r.Get("/gameweek", gameweekhandlers.StatusHandler(m.GameweekService, m.render, m.logger))
}

// Run starts the gameweek module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting gameweek module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Gameweek module goroutine stopped")
}

// Close shuts down the gameweek module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.logger.Info("Gameweek module stopped")
	return nil
}
