package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/service/event"
	"github.com/arbiterhq/arbiter/service/messaging"
	"github.com/arbiterhq/arbiter/service/messaging/memory"
	"github.com/stretchr/testify/assert"
)

func TestQueue_PublishConsumeAck(t *testing.T) {
	ctx := context.Background()
	queue := memory.NewQueue[event.Event](memory.DefaultConfig())

	assert.NoError(t, queue.Publish(ctx, &event.Event{
		Topic:      event.TopicDecisionApproved,
		DecisionID: "d1",
	}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "d1", message.T().DecisionID)
	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Equal(t, 0, queue.Size())
}

func TestQueue_NackRetriesThenDeadLetters(t *testing.T) {
	ctx := context.Background()
	config := memory.Config{
		MaxRetries:  1,
		RetryDelay:  time.Millisecond,
		DeadLetter:  true,
		QueueBuffer: 10,
	}
	queue := memory.NewQueue[event.Event](config)

	assert.NoError(t, queue.Publish(ctx, &event.Event{DecisionID: "d1"}))

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.NoError(t, message.Nack(assert.AnError))

	// First nack requeues after the retry delay.
	cctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	message, err = queue.Consume(cctx)
	assert.NoError(t, err)
	assert.NoError(t, message.Nack(assert.AnError))

	assert.Eventually(t, func() bool { return queue.DLQSize() == 1 }, time.Second, 5*time.Millisecond)
}

func TestQueue_PublishDropsWhenFull(t *testing.T) {
	ctx := context.Background()
	config := memory.DefaultConfig()
	config.QueueBuffer = 1
	queue := memory.NewQueue[event.Event](config)

	assert.NoError(t, queue.Publish(ctx, &event.Event{DecisionID: "d1"}))

	// No consumer attached; the second publish returns immediately instead of
	// blocking the producer.
	done := make(chan error, 1)
	go func() { done <- queue.Publish(ctx, &event.Event{DecisionID: "d2"}) }()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, messaging.ErrQueueFull)
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
	assert.Equal(t, 1, queue.Size())
}

func TestQueue_ConsumeHonoursContext(t *testing.T) {
	queue := memory.NewQueue[event.Event](memory.DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := queue.Consume(ctx)
	assert.Error(t, err)
}
