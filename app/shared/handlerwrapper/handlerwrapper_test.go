package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type ping struct {
	N int `json:"n"`
}

type recordingPublisher struct {
	topics []string
}

func (r *recordingPublisher) Publish(topic string, messages ...*message.Message) error {
	for range messages {
		r.topics = append(r.topics, topic)
	}
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestWrapTyped(t *testing.T) {
	tracer := noop.NewTracerProvider().Tracer("test")

	tests := []struct {
		name       string
		payload    []byte
		handler    func(context.Context, *ping) ([]Result, error)
		wantErr    bool
		wantTopics []string
	}{
		{
			name:    "decodes and emits results",
			payload: []byte(`{"n":2}`),
			handler: func(_ context.Context, p *ping) ([]Result, error) {
				return []Result{{Topic: "pong.v1", Payload: ping{N: p.N + 1}}}, nil
			},
			wantTopics: []string{"pong.v1"},
		},
		{
			name:    "undecodable payload is dropped",
			payload: []byte(`{`),
			handler: func(context.Context, *ping) ([]Result, error) {
				t.Fatal("handler must not run")
				return nil, nil
			},
		},
		{
			name:    "handler error is returned for redelivery",
			payload: []byte(`{"n":1}`),
			handler: func(context.Context, *ping) ([]Result, error) {
				return nil, errors.New("db down")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapTyped("test.handler", slog.Default(), tracer, tt.handler)
			out, err := h(message.NewMessage(watermill.NewUUID(), tt.payload))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			var topics []string
			for _, m := range out {
				topics = append(topics, m.Metadata.Get(MetadataTopic))
			}
			assert.Equal(t, tt.wantTopics, topics)
		})
	}
}

func TestTopicPublisher(t *testing.T) {
	rec := &recordingPublisher{}
	pub := TopicPublisher{Publisher: rec}

	tagged := message.NewMessage("1", []byte(`{}`))
	tagged.Metadata.Set(MetadataTopic, "league.washed.v1")
	untagged := message.NewMessage("2", []byte(`{}`))

	require.NoError(t, pub.Publish("fallback.v1", tagged, untagged))
	assert.Equal(t, []string{"league.washed.v1", "fallback.v1"}, rec.topics)

	assert.Error(t, pub.Publish("", message.NewMessage("3", nil)))
}

func TestWrapTyped_ResultPayloadIsJSON(t *testing.T) {
	h := WrapTyped("t", slog.Default(), noop.NewTracerProvider().Tracer("test"),
		func(_ context.Context, p *ping) ([]Result, error) {
			return []Result{{Topic: "x", Payload: p}}, nil
		})
	out, err := h(message.NewMessage("1", []byte(`{"n":5}`)))
	require.NoError(t, err)
	require.Len(t, out, 1)

	var got ping
	require.NoError(t, json.Unmarshal(out[0].Payload, &got))
	assert.Equal(t, 5, got.N)
}

func TestPublishAll(t *testing.T) {
	pub := &recordingPublisher{}
	err := PublishAll(context.Background(), pub, []Result{
		{Topic: "a.v1", Payload: ping{N: 1}},
		{Topic: "b.v1", Payload: ping{N: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.v1", "b.v1"}, pub.topics)

	assert.NoError(t, PublishAll(context.Background(), nil, []Result{{Topic: "a.v1"}}))
}
