package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	fixtureservice "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/application"
	fixturehandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/handlers"
	fixturedb "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/repositories"
	fixturerouter "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/router"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/eventbus"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
	"github.com/uptrace/bun"
)

// Module represents the fixture module.
type Module struct {
	FixtureService fixtureservice.Service
	FixtureRouter  *fixturerouter.FixtureRouter
	render         *render.Render
	logger         *slog.Logger
	cancelFunc     context.CancelFunc
}

// NewFixtureModule creates and initializes a new fixture module. applier
// receives every fixture transition inside the ingestion transaction.
func NewFixtureModule(
	ctx context.Context,
	obs observability.Observability,
	metrics observability.OperationMetrics,
	repo fixturedb.Repository,
	applier fixtureservice.TransitionApplier,
	calc gameweekdomain.Calculator,
	clk clock.Clock,
	eventBus eventbus.EventBus,
	router *message.Router,
	routerCtx context.Context,
	rnd *render.Render,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "fixture.NewFixtureModule initializing")

	service := fixtureservice.NewFixtureService(repo, applier, calc, clk, eventBus, logger, metrics, tracer, db)

	handlers := fixturehandlers.NewFixtureHandlers(service, logger, tracer)

	fixtureRouter := fixturerouter.NewFixtureRouter(logger, router, eventBus, eventBus, tracer)
	if err := fixtureRouter.Configure(routerCtx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure fixture router: %w", err)
	}

	return &Module{
		FixtureService: service,
		FixtureRouter:  fixtureRouter,
		render:         rnd,
		logger:         logger,
	}, nil
}

// MountRoutes registers the player-facing fixture endpoints.
func (m *Module) MountRoutes(r chi.Router) {
	r.Get("/fixtures/pickable", fixturehandlers.PickableHandler(m.FixtureService, m.render, m.logger))
}

// MountAdminRoutes registers operator fixture endpoints.
func (m *Module) MountAdminRoutes(r chi.Router) {
	r.Post("/fixtures/feed", fixturehandlers.FeedHandler(m.FixtureService, m.render, m.logger))
	r.Post("/fixtures/import", fixturehandlers.ImportHandler(m.FixtureService, m.render, m.logger))
}

// Run starts the fixture module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting fixture module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Fixture module goroutine stopped")
}

// Close shuts down the fixture module. The shared message router is closed
// by the application.
func (m *Module) Close() error {
	m.logger.Info("Stopping fixture module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	m.logger.Info("Fixture module stopped")
	return nil
}
