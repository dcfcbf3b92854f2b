// Package handlerwrapper adapts typed JSON handlers to Watermill handler funcs.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/eventbus"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MetadataTopic names the topic an outgoing message should be published to.
const MetadataTopic = "topic"

// Result is one outgoing message produced by a handler.
type Result struct {
	Topic   string
	Payload any
}

// WrapTyped decodes the incoming payload into T, calls handler and turns its
// results into outgoing messages tagged with their destination topic.
//
// A payload that cannot be decoded is logged and acknowledged; redelivering
// it would fail the same way.
func WrapTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler func(context.Context, *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx := msg.Context()
		if id := msg.Metadata.Get(eventbus.MetadataCorrelationID); id != "" {
			ctx = attr.WithCorrelationID(ctx, id)
		}

		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
		))
		defer span.End()

		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			logger.ErrorContext(ctx, "Discarding undecodable message",
				attr.ExtractCorrelationID(ctx),
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.SetStatus(codes.Error, "undecodable payload")
			return nil, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}

		out := make([]*message.Message, 0, len(results))
		for _, r := range results {
			m, err := eventbus.NewMessage(ctx, r.Payload)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", handlerName, err)
			}
			m.Metadata.Set(MetadataTopic, r.Topic)
			out = append(out, m)
		}
		return out, nil
	}
}

// TopicPublisher publishes each message to the topic named in its metadata,
// falling back to the topic passed by the router.
type TopicPublisher struct {
	message.Publisher
}

func (p TopicPublisher) Publish(topic string, messages ...*message.Message) error {
	for _, m := range messages {
		dest := m.Metadata.Get(MetadataTopic)
		if dest == "" {
			dest = topic
		}
		if dest == "" {
			return fmt.Errorf("message %s has no destination topic", m.UUID)
		}
		if err := p.Publisher.Publish(dest, m); err != nil {
			return err
		}
	}
	return nil
}

// PublishAll publishes results directly, for services that collect events
// inside a transaction and emit them after commit. A nil publisher drops them.
func PublishAll(ctx context.Context, pub message.Publisher, results []Result) error {
	if pub == nil {
		return nil
	}
	var errs []error
	for _, r := range results {
		if err := eventbus.PublishJSON(ctx, pub, r.Topic, r.Payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
