package fixturerouter

import (
	"context"
	"log/slog"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	fixturehandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/handlers"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/eventbus"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// FixtureRouter handles Watermill handler registration for fixture events.
type FixtureRouter struct {
	logger     *slog.Logger
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
}

// NewFixtureRouter creates a new FixtureRouter.
func NewFixtureRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
) *FixtureRouter {
	return &FixtureRouter{
		logger:     logger,
		router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure sets up the router with handlers.
func (r *FixtureRouter) Configure(_ context.Context, handlers fixturehandlers.Handlers) error {
	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandlers wires bus topics to handler methods.
func (r *FixtureRouter) registerHandlers(handlers fixturehandlers.Handlers) {
	deps := handlerDeps{
		router:     r.router,
		subscriber: r.subscriber,
		publisher:  handlerwrapper.TopicPublisher{Publisher: r.publisher},
		logger:     r.logger,
		tracer:     r.tracer,
	}

	r.logger.Info("Registering fixture module handlers",
		slog.String("feed_subject", fixturedomain.TopicFeedBatchV1),
	)

	registerHandler(deps, fixturedomain.TopicFeedBatchV1, handlers.HandleFeedBatch)

	r.logger.Info("Fixture module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "fixture." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"",
		deps.publisher,
		handlerwrapper.WrapTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *FixtureRouter) Close() error {
	return r.router.Close()
}
