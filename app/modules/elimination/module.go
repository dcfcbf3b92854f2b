package elimination

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	eliminationservice "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/application"
	eliminationhandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/infrastructure/handlers"
	eliminationqueue "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/infrastructure/queue"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
	"github.com/uptrace/bun"
)

// Module represents the elimination module.
type Module struct {
	EliminationService eliminationservice.Service
	Runner             eliminationservice.SweepRunner
	queue              *eliminationqueue.Service
	render             *render.Render
	logger             *slog.Logger
	cancelFunc         context.CancelFunc
}

// Deps are the collaborators the elimination module is built from.
type Deps struct {
	Leagues     leaguedb.Repository
	Fixtures    eliminationservice.FixtureReader
	Gameweek    eliminationservice.GameweekStatus
	Checker     eliminationservice.GameweekChecker
	Clock       clock.Clock
	Publisher   message.Publisher
	UnitTimeout time.Duration
	DB          *bun.DB
}

// NewEliminationModule creates the elimination module. A nil queueCfg leaves
// River out, and sweeps then only run when triggered.
func NewEliminationModule(
	ctx context.Context,
	obs observability.Observability,
	metrics observability.OperationMetrics,
	deps Deps,
	queueCfg *eliminationqueue.Config,
	rnd *render.Render,
) (*Module, error) {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "elimination.NewEliminationModule initializing")

	service := eliminationservice.NewEliminationService(
		deps.Leagues,
		deps.Fixtures,
		deps.Gameweek,
		deps.Clock,
		deps.Publisher,
		deps.UnitTimeout,
		logger,
		metrics,
		obs.Registry.Tracer,
		deps.DB,
	)
	runner := eliminationservice.SweepRunner{Elimination: service, Gameweek: deps.Checker}

	m := &Module{
		EliminationService: service,
		Runner:             runner,
		render:             rnd,
		logger:             logger,
	}

	if queueCfg != nil {
		queue, err := eliminationqueue.NewService(ctx, *queueCfg, runner, logger, metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to create sweep queue: %w", err)
		}
		m.queue = queue
	}
	return m, nil
}

// Applier is the transition applier the fixture module calls during ingestion.
func (m *Module) Applier() eliminationservice.Service {
	return m.EliminationService
}

// MountAdminRoutes registers POST /sweeps/{name} on an admin-only router.
func (m *Module) MountAdminRoutes(r chi.Router) {
	var queue eliminationhandlers.Enqueuer
	if m.queue != nil {
		queue = m.queue
	}
	r.Post("/sweeps/{name}", eliminationhandlers.SweepHandler(m.Runner, queue, m.render, m.logger))
}

// HealthCheck reports whether the sweep queue can reach its database.
func (m *Module) HealthCheck(ctx context.Context) error {
	if m.queue == nil {
		return nil
	}
	return m.queue.HealthCheck(ctx)
}

// Run starts the sweep queue, if any, and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting elimination module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.queue != nil {
		// Stopped gracefully by Close, not by ctx.
		if err := m.queue.Start(context.WithoutCancel(ctx)); err != nil {
			m.logger.ErrorContext(ctx, "Sweep queue failed to start", attr.Error(err))
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Elimination module goroutine stopped")
}

// Close stops the sweep queue and the module goroutine.
func (m *Module) Close() error {
	m.logger.Info("Stopping elimination module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := m.queue.Stop(ctx); err != nil {
			return err
		}
	}

	m.logger.Info("Elimination module stopped")
	return nil
}
