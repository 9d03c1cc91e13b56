package event_test

import (
	"context"
	"testing"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/event"
	"github.com/arbiterhq/arbiter/service/messaging/memory"
	"github.com/stretchr/testify/assert"
)

func sample(id string) *model.Decision {
	return &model.Decision{
		ID:       id,
		TenantID: "t1",
		Type:     model.TypeCreateTask,
		Status:   model.StatusPending,
	}
}

func TestPublisher_NeverBlocksWithoutConsumer(t *testing.T) {
	ctx := context.Background()
	config := memory.DefaultConfig()
	config.QueueBuffer = 1
	queue := memory.NewQueue[event.Event](config)
	publisher := event.NewPublisher(queue)

	// Nothing consumes the queue; the second publish must return promptly and
	// land on the drop counter instead of hanging the decision path.
	done := make(chan struct{})
	go func() {
		publisher.Publish(ctx, event.TopicDecisionProposed, sample("d1"))
		publisher.Publish(ctx, event.TopicDecisionProposed, sample("d2"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
	assert.Equal(t, int64(1), publisher.Dropped())

	message, err := queue.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "d1", message.T().DecisionID)
}

func TestPublisher_NilQueueIsNoop(t *testing.T) {
	publisher := event.NewPublisher(nil)
	publisher.Publish(context.Background(), event.TopicDecisionProposed, sample("d1"))
	assert.Zero(t, publisher.Dropped())
}
