// Package events publishes booking lifecycle events.
package events

import (
	"context"
	"fmt"

	"clinic/pkg/kafka"
	"clinic/pkg/model"
)

const (
	SchemaVersion = "1"
	Source        = "clinic"
)

type Publisher interface {
	Publish(ctx context.Context, event model.BookingEvent) error
}

// MessagePublisher is the part of kafka.Producer used here.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type KafkaPublisher struct {
	producer MessagePublisher
}

func NewKafkaPublisher(producer MessagePublisher) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

// Publish keys the message by booking ID so one booking's events stay ordered
// on a single partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event model.BookingEvent) error {
	msg, err := NewMessage(ctx, event)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, msg); err != nil {
		return fmt.Errorf("publish %s for booking %s: %w", event.Type, event.BookingID, err)
	}
	return nil
}

func NewMessage(ctx context.Context, event model.BookingEvent) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(string(event.Type)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(CorrelationID(ctx)).
		WithTimestamp(event.OccurredAt).
		Build()
}

// Nop drops events; used when Kafka is disabled.
type Nop struct{}

func (Nop) Publish(context.Context, model.BookingEvent) error { return nil }

type correlationKey struct{}

// WithCorrelationID stores the request ID that published events will carry.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
