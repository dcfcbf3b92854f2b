package fixturehandlers

import (
	"context"
	"log/slog"

	fixtureservice "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/application"
	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"go.opentelemetry.io/otel/trace"
)

// FixtureHandlers implements the Handlers interface.
type FixtureHandlers struct {
	service fixtureservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewFixtureHandlers creates a new FixtureHandlers instance.
func NewFixtureHandlers(
	service fixtureservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &FixtureHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleFeedBatch ingests the batch. Infrastructure errors are returned so
// the router redelivers; rejected batches are logged and acknowledged.
func (h *FixtureHandlers) HandleFeedBatch(ctx context.Context, payload *fixturedomain.FeedBatchPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "FixtureHandlers.HandleFeedBatch")
	defer span.End()

	result, err := h.service.IngestFeed(ctx, *payload)
	if err != nil {
		return nil, err
	}

	if result.Failure != nil {
		h.logger.WarnContext(ctx, "Feed batch rejected",
			attr.ExtractCorrelationID(ctx),
			attr.String("source", payload.Source),
			attr.Error(*result.Failure),
		)
		return nil, nil
	}

	summary := result.Success
	h.logger.InfoContext(ctx, "Feed batch ingested",
		attr.ExtractCorrelationID(ctx),
		attr.String("source", summary.Source),
		attr.Int("received", summary.Received),
		attr.Int("stored", summary.Stored),
		attr.Int("resolved", summary.Resolved),
		attr.Int("voided", summary.Voided),
		attr.Int("rejected", summary.Rejected),
		attr.Int("failed", summary.Failed),
	)

	// Elimination events are published by the service after each commit.
	return nil, nil
}
