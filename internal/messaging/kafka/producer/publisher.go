package producer

import (
	"context"

	"go-attend/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	// Keyed by recipient so one employee's notifications stay in order.
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.RecipientID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
