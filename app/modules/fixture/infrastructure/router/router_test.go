package fixturerouter

import (
	"context"
	"log/slog"
	"testing"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/eventbus"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type capturingHandlers struct {
	got chan fixturedomain.FeedBatchPayloadV1
}

func (h *capturingHandlers) HandleFeedBatch(ctx context.Context, payload *fixturedomain.FeedBatchPayloadV1) ([]handlerwrapper.Result, error) {
	h.got <- *payload
	return nil, nil
}

func TestFixtureRouter_DeliversFeedBatches(t *testing.T) {
	logger := slog.Default()
	bus := eventbus.NewInMemoryEventBus(logger)

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	handlers := &capturingHandlers{got: make(chan fixturedomain.FeedBatchPayloadV1, 1)}
	fr := NewFixtureRouter(logger, router, bus, bus, noop.NewTracerProvider().Tracer("test"))
	require.NoError(t, fr.Configure(context.Background(), handlers))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Run(ctx) }()
	<-router.Running()
	defer fr.Close()

	require.NoError(t, eventbus.PublishJSON(ctx, bus, fixturedomain.TopicFeedBatchV1, fixturedomain.FeedBatchPayloadV1{Source: "bus"}))

	select {
	case batch := <-handlers.got:
		require.Equal(t, "bus", batch.Source)
	case <-time.After(5 * time.Second):
		t.Fatal("feed batch was not delivered")
	}
}
