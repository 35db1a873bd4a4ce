package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic/pkg/kafka"
	"clinic/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureProducer struct {
	msgs []kafka.Message
	err  error
}

func (c *captureProducer) Publish(ctx context.Context, msg kafka.Message) error {
	c.msgs = append(c.msgs, msg)
	return c.err
}

func testEvent() model.BookingEvent {
	b := &model.Booking{
		ID:         "665f1f77bcf86cd799439011",
		ProviderID: "665f1f77bcf86cd799439012",
		Date:       "2025-06-11",
		TimeSlot:   "10:00",
		Status:     model.BookingScheduled,
	}
	return model.NewBookingEvent(model.BookingCreatedEvent, b, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC))
}

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := &captureProducer{}
	pub := NewKafkaPublisher(producer)
	ctx := WithCorrelationID(context.Background(), "req-1")

	require.NoError(t, pub.Publish(ctx, testEvent()))
	require.Len(t, producer.msgs, 1)

	msg := producer.msgs[0]
	assert.Equal(t, "665f1f77bcf86cd799439011", msg.Key)
	assert.Equal(t, "booking.created", msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())

	var decoded model.BookingEvent
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, testEvent(), decoded)
}

func TestKafkaPublisher_WrapsProducerError(t *testing.T) {
	boom := errors.New("broker down")
	pub := NewKafkaPublisher(&captureProducer{err: boom})

	err := pub.Publish(context.Background(), testEvent())
	assert.ErrorIs(t, err, boom)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), testEvent()))
}
