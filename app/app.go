package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/modules/auth"
	"github.com/Black-And-White-Club/last-man-standing/app/modules/elimination"
	eliminationqueue "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/infrastructure/queue"
	"github.com/Black-And-White-Club/last-man-standing/app/modules/fixture"
	fixturedb "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	gameweekdb "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/modules/league"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/eventbus"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/config"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/unrolled/render"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// App holds the application's modules and shared infrastructure.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	Logger        *slog.Logger
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Render        *render.Render
	Clock         clock.Clock

	AuthModule        *auth.Module
	GameweekModule    *gameweek.Module
	EliminationModule *elimination.Module
	FixtureModule     *fixture.Module
	LeagueModule      *league.Module

	server    *httpServer
	closeOnce sync.Once
	closeErr  error
}

// Options tweak Initialize for the CLI and tests.
type Options struct {
	// Sweeps attaches the River queue. Periodic jobs are scheduled only when
	// the config enables them as well.
	Sweeps bool
	// Clock overrides the wall clock.
	Clock clock.Clock
}

// NewApp creates an App from an already loaded configuration.
func NewApp(cfg *config.Config, obs observability.Observability) *App {
	return &App{
		Config:        cfg,
		Observability: obs,
		Logger:        obs.Provider.Logger,
	}
}

// Initialize opens the database and event bus and builds every module.
func (app *App) Initialize(ctx context.Context, opts Options) error {
	cfg := app.Config
	logger := app.Logger

	app.Clock = opts.Clock
	if app.Clock == nil {
		app.Clock = clock.RealClock{}
	}
	app.Render = httpx.NewRender()

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.DSN)))
	app.DB = bun.NewDB(pgdb, pgdialect.New())
	if err := app.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.NATS.URL != "" {
		bus, err := eventbus.NewNATSEventBus(eventbus.Config{
			URL:        cfg.NATS.URL,
			NKeySeed:   cfg.NATS.NKeySeed,
			QueueGroup: cfg.NATS.QueueGroup,
			ClientName: "last-man-standing",
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
		app.EventBus = bus
	} else {
		logger.WarnContext(ctx, "NATS url not set, using in-memory event bus")
		app.EventBus = eventbus.NewInMemoryEventBus(logger)
	}

	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 30 * time.Second}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create message router: %w", err)
	}
	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)
	app.Router = router

	if err := app.initializeModules(ctx, opts); err != nil {
		return err
	}

	app.server = newHTTPServer(cfg.HTTP, app.routes(), logger)
	return nil
}

func (app *App) initializeModules(ctx context.Context, opts Options) error {
	cfg := app.Config
	obs := app.Observability
	reg := obs.Registry.Prometheus

	calc := gameweekdomain.NewCalculator(cfg.Location())
	fixtureRepo := fixturedb.NewRepository(app.DB)
	fixtureReader := fixturedb.Reader{Repo: fixtureRepo}
	leagueRepo := leaguedb.NewRepository(app.DB)

	app.AuthModule = auth.NewModule(ctx, cfg, obs, app.Render)

	app.GameweekModule = gameweek.NewGameweekModule(
		ctx, obs,
		observability.NewOperationMetrics(reg, "gameweek"),
		gameweekdb.NewRepository(app.DB),
		fixtureRepo,
		calc,
		cfg.Gameweek.MinTeamSides,
		app.Clock,
		app.EventBus,
		app.Render,
		app.DB,
	)

	var queueCfg *eliminationqueue.Config
	if opts.Sweeps {
		queueCfg = &eliminationqueue.Config{
			DSN:              cfg.Postgres.DSN,
			Location:         cfg.Location(),
			Periodic:         cfg.Sweeps.Enabled,
			WinnerInterval:   cfg.Sweeps.WinnerInterval,
			GameweekInterval: cfg.Sweeps.GameweekInterval,
			RolloverInterval: cfg.Sweeps.RolloverInterval,
			MaxWorkers:       cfg.Sweeps.MaxWorkers,
		}
	}
	eliminationModule, err := elimination.NewEliminationModule(
		ctx, obs,
		observability.NewOperationMetrics(reg, "elimination"),
		elimination.Deps{
			Leagues:     leagueRepo,
			Fixtures:    fixtureReader,
			Gameweek:    app.GameweekModule.GameweekService,
			Checker:     app.GameweekModule.GameweekService,
			Clock:       app.Clock,
			Publisher:   app.EventBus,
			UnitTimeout: cfg.Sweeps.UnitTimeout,
			DB:          app.DB,
		},
		queueCfg,
		app.Render,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize elimination module: %w", err)
	}
	app.EliminationModule = eliminationModule

	fixtureModule, err := fixture.NewFixtureModule(
		ctx, obs,
		observability.NewOperationMetrics(reg, "fixture"),
		fixtureRepo,
		eliminationModule.Applier(),
		calc,
		app.Clock,
		app.EventBus,
		app.Router,
		ctx,
		app.Render,
		app.DB,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize fixture module: %w", err)
	}
	app.FixtureModule = fixtureModule

	app.LeagueModule = league.NewLeagueModule(
		ctx, obs,
		observability.NewOperationMetrics(reg, "league"),
		leagueRepo,
		fixtureReader,
		app.GameweekModule.GameweekService,
		app.Clock,
		app.EventBus,
		app.Render,
		app.DB,
	)

	app.Logger.InfoContext(ctx, "All modules initialized")
	return nil
}

// Run starts the message router, the modules and the HTTP server, and
// blocks until ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	modules := []interface {
		Run(context.Context, *sync.WaitGroup)
	}{app.GameweekModule, app.EliminationModule, app.FixtureModule, app.LeagueModule}

	for _, m := range modules {
		wg.Add(1)
		go m.Run(ctx, &wg)
	}

	routerErr := make(chan error, 1)
	go func() {
		if err := app.Router.Run(ctx); err != nil {
			routerErr <- fmt.Errorf("message router stopped: %w", err)
		}
	}()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.server.ListenAndServe()
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-routerErr:
	case runErr = <-serverErr:
	}

	if err := app.Close(); err != nil {
		app.Logger.Error("Shutdown finished with errors", attr.Error(err))
	}
	wg.Wait()
	return runErr
}

// Close shuts everything down in reverse start order. Later calls return the
// first call's result.
func (app *App) Close() error {
	app.closeOnce.Do(func() { app.closeErr = app.close() })
	return app.closeErr
}

func (app *App) close() error {
	app.Logger.Info("Shutting down application")
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if app.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		keep(app.server.Shutdown(ctx))
		cancel()
	}
	if app.LeagueModule != nil {
		keep(app.LeagueModule.Close())
	}
	if app.FixtureModule != nil {
		keep(app.FixtureModule.Close())
	}
	if app.EliminationModule != nil {
		keep(app.EliminationModule.Close())
	}
	if app.GameweekModule != nil {
		keep(app.GameweekModule.Close())
	}
	if app.Router != nil {
		keep(app.Router.Close())
	}
	if app.EventBus != nil {
		keep(app.EventBus.Close())
	}
	if app.DB != nil {
		keep(app.DB.Close())
	}
	return firstErr
}
