package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newRetryConsumer() *Consumer {
	return &Consumer{
		logger:       zap.NewNop(),
		retryInitial: time.Millisecond,
		retryMax:     4 * time.Millisecond,
	}
}

func TestHandleWithRetry_RetriesSameMessageUntilSuccess(t *testing.T) {
	c := newRetryConsumer()
	msg := kafkago.Message{Topic: "user.events", Offset: 7}

	var seen []int64
	calls := 0
	err := c.handleWithRetry(context.Background(), msg, func(_ context.Context, m kafkago.Message) error {
		calls++
		seen = append(seen, m.Offset)
		if calls < 4 {
			return errors.New("connection reset")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []int64{7, 7, 7, 7}, seen)
}

func TestHandleWithRetry_StopsOnCancel(t *testing.T) {
	c := newRetryConsumer()
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := c.handleWithRetry(ctx, kafkago.Message{}, func(context.Context, kafkago.Message) error {
		calls++
		if calls == 2 {
			cancel()
		}
		return errors.New("database unavailable")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, calls)
}

func TestHandleWithRetry_BackoffIsCapped(t *testing.T) {
	c := newRetryConsumer()
	c.retryMax = 2 * time.Millisecond

	calls := 0
	start := time.Now()
	err := c.handleWithRetry(context.Background(), kafkago.Message{}, func(context.Context, kafkago.Message) error {
		calls++
		if calls < 10 {
			return errors.New("timeout")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
