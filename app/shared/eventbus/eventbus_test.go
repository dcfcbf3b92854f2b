package eventbus

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/nats-io/nkeys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishJSON_InMemory(t *testing.T) {
	bus := NewInMemoryEventBus(slog.Default())
	defer bus.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msgs, err := bus.Subscribe(ctx, "league.washed.v1")
	require.NoError(t, err)

	ctx = attr.WithCorrelationID(ctx, "corr-9")
	require.NoError(t, PublishJSON(ctx, bus, "league.washed.v1", map[string]int64{"league_id": 4}))

	select {
	case msg := <-msgs:
		msg.Ack()
		var got map[string]int64
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, int64(4), got["league_id"])
		assert.Equal(t, "corr-9", msg.Metadata.Get(MetadataCorrelationID))
		assert.NotEmpty(t, msg.UUID)
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

func TestNewMessage_RejectsUnmarshalable(t *testing.T) {
	_, err := NewMessage(context.Background(), func() {})
	assert.Error(t, err)
}

func TestNKeyOption(t *testing.T) {
	kp, err := nkeys.CreateUser()
	require.NoError(t, err)
	seed, err := kp.Seed()
	require.NoError(t, err)

	opt, err := nkeyOption(string(seed))
	require.NoError(t, err)
	assert.NotNil(t, opt)

	_, err = nkeyOption("not-a-seed")
	assert.Error(t, err)
}

func TestNewNATSEventBus_RequiresURL(t *testing.T) {
	_, err := NewNATSEventBus(Config{}, slog.Default())
	assert.Error(t, err)
}
