//go:build integration

package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	natsmodule "github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startNATS(t *testing.T) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := natsmodule.Run(ctx,
		"nats:2.10-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForLog("Server is ready"),
				wait.ForListeningPort("4222/tcp"),
			).WithDeadline(45*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	return url
}

func TestNATSEventBus_RoundTrip(t *testing.T) {
	url := startNATS(t)

	bus, err := NewNATSEventBus(Config{URL: url, QueueGroup: "lms-test", ClientName: "lms-test"}, slog.Default())
	require.NoError(t, err)
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	msgs, err := bus.Subscribe(ctx, "league.member.eliminated.v1")
	require.NoError(t, err)

	// Core NATS drops messages published before the subscription is live.
	time.Sleep(200 * time.Millisecond)

	ctx = attr.WithCorrelationID(ctx, "corr-nats")
	require.NoError(t, PublishJSON(ctx, bus, "league.member.eliminated.v1", map[string]string{"user_id": "alice"}))

	select {
	case msg := <-msgs:
		msg.Ack()
		var got map[string]string
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, "alice", got["user_id"])
		assert.Equal(t, "corr-nats", msg.Metadata.Get(MetadataCorrelationID))
	case <-ctx.Done():
		t.Fatal("message not delivered over nats")
	}
}
