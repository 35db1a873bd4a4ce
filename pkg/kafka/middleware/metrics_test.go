package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"clinic/pkg/kafka"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	var m Metrics
	publish := m.ProducerMiddleware()
	consume := m.ConsumerMiddleware()

	ok := func(ctx context.Context, msg kafka.Message) error { return nil }
	fail := func(ctx context.Context, msg kafka.Message) error { return errors.New("boom") }

	_ = publish(context.Background(), kafka.Message{}, ok)
	_ = publish(context.Background(), kafka.Message{}, ok)
	_ = publish(context.Background(), kafka.Message{}, fail)
	_ = consume(context.Background(), kafka.Message{}, fail)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Published)
	assert.Equal(t, int64(1), snap.PublishFailed)
	assert.Equal(t, int64(0), snap.Consumed)
	assert.Equal(t, int64(1), snap.ConsumeFailed)
	assert.Equal(t, "0s", snap.AvgConsumeDuration)
}
