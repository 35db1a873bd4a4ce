package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clinic/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	if len(f.queue) > 0 {
		m := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return m, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error { return nil }

func (f *fakeReader) commits() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.committed...)
}

type fakeDLQ struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (f *fakeDLQ) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeDLQ) Close() error { return nil }

func newTestConsumer(reader fetcher, dlq dlqSender, handler MessageHandler) *Consumer {
	c := &Consumer{
		reader:     reader,
		topic:      "clinic.bookings",
		groupID:    "test",
		maxRetries: 2,
		backoff:    time.Millisecond,
		handler:    handler,
		log:        logger.Discard(),
	}
	if dlq != nil {
		c.dlqWriter = dlq
	}
	return c
}

func runUntilCommitted(t *testing.T, c *Consumer, reader *fakeReader, want int) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx) }()

	require.Eventually(t, func() bool { return len(reader.commits()) == want }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Offset: 1}, {Offset: 2}}}
	var seen []int64
	c := newTestConsumer(reader, nil, func(ctx context.Context, msg Message) error {
		seen = append(seen, msg.Offset)
		return nil
	})

	runUntilCommitted(t, c, reader, 2)
	assert.Equal(t, []int64{1, 2}, seen)
}

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Offset: 7}}}
	attempts := 0
	c := newTestConsumer(reader, nil, func(ctx context.Context, msg Message) error {
		attempts++
		if attempts < 2 {
			return NewTransientError("timeout", nil)
		}
		return nil
	})

	runUntilCommitted(t, c, reader, 1)
	assert.Equal(t, 2, attempts)
}

func TestConsumer_PermanentFailureGoesToDLQ(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Offset: 3, Key: []byte("b1")}}}
	dlq := &fakeDLQ{}
	attempts := 0
	c := newTestConsumer(reader, dlq, func(ctx context.Context, msg Message) error {
		attempts++
		return NewPermanentError("bad payload", errors.New("x"))
	})

	runUntilCommitted(t, c, reader, 1)
	assert.Equal(t, 1, attempts)
	require.Len(t, dlq.msgs, 1)
	assert.Equal(t, "b1", string(dlq.msgs[0].Key))
}

func TestConsumer_MiddlewareOrder(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{{Offset: 1}}}
	var order []string
	c := newTestConsumer(reader, nil, func(ctx context.Context, msg Message) error {
		order = append(order, "handler")
		return nil
	})
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "outer")
		return next(ctx, msg)
	})
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		order = append(order, "inner")
		return next(ctx, msg)
	})

	runUntilCommitted(t, c, reader, 1)
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}
