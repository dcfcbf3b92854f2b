package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

// MetadataCorrelationID is the message metadata key carrying the correlation id.
const MetadataCorrelationID = "correlation_id"

// EventBus is both ends of the message transport.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// Config describes the NATS connection.
type Config struct {
	URL        string
	NKeySeed   string
	QueueGroup string
	ClientName string
}

type natsEventBus struct {
	publisher  *nats.Publisher
	subscriber *nats.Subscriber
	logger     *slog.Logger
}

// NewNATSEventBus connects a Watermill publisher and subscriber to NATS.
// Subscribers join a queue group so replicas share the feed.
func NewNATSEventBus(cfg Config, logger *slog.Logger) (EventBus, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats url is required")
	}

	natsOptions := []nc.Option{
		nc.RetryOnFailedConnect(true),
		nc.Name(cfg.ClientName),
	}
	if cfg.NKeySeed != "" {
		opt, err := nkeyOption(cfg.NKeySeed)
		if err != nil {
			return nil, err
		}
		natsOptions = append(natsOptions, opt)
	}

	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &nats.NATSMarshaler{}
	jsConfig := nats.JetStreamConfig{Disabled: true}

	publisher, err := nats.NewPublisher(
		nats.PublisherConfig{
			URL:         cfg.URL,
			Marshaler:   marshaler,
			NatsOptions: natsOptions,
			JetStream:   jsConfig,
		},
		wmLogger,
	)
	if err != nil {
		logger.Error("Failed to create Watermill publisher", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill publisher: %w", err)
	}

	subscriber, err := nats.NewSubscriber(
		nats.SubscriberConfig{
			URL:              cfg.URL,
			Unmarshaler:      marshaler,
			NatsOptions:      natsOptions,
			QueueGroupPrefix: cfg.QueueGroup,
			SubscribersCount: 1,
			JetStream:        jsConfig,
		},
		wmLogger,
	)
	if err != nil {
		_ = publisher.Close()
		logger.Error("Failed to create Watermill subscriber", attr.Error(err))
		return nil, fmt.Errorf("failed to create Watermill subscriber: %w", err)
	}

	logger.Info("Connected event bus to NATS", attr.String("url", cfg.URL), attr.Bool("nkey", cfg.NKeySeed != ""))

	return &natsEventBus{publisher: publisher, subscriber: subscriber, logger: logger}, nil
}

func nkeyOption(seed string) (nc.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("invalid nats nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	return nc.Nkey(pub, kp.Sign), nil
}

func (b *natsEventBus) Publish(topic string, messages ...*message.Message) error {
	return b.publisher.Publish(topic, messages...)
}

func (b *natsEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.subscriber.Subscribe(ctx, topic)
}

func (b *natsEventBus) Close() error {
	subErr := b.subscriber.Close()
	pubErr := b.publisher.Close()
	if subErr != nil {
		return fmt.Errorf("failed to close subscriber: %w", subErr)
	}
	if pubErr != nil {
		return fmt.Errorf("failed to close publisher: %w", pubErr)
	}
	return nil
}

// NewInMemoryEventBus returns a process-local bus for tests and single-node runs.
func NewInMemoryEventBus(logger *slog.Logger) EventBus {
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
}

// NewMessage marshals payload to JSON and stamps the correlation id from ctx.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := attr.CorrelationID(ctx); id != "" {
		msg.Metadata.Set(MetadataCorrelationID, id)
	}
	msg.SetContext(ctx)
	return msg, nil
}

// PublishJSON publishes payload on topic.
func PublishJSON(ctx context.Context, pub message.Publisher, topic string, payload any) error {
	msg, err := NewMessage(ctx, payload)
	if err != nil {
		return err
	}
	if err := pub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}
