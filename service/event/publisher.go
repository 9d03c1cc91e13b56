package event

import (
	"context"
	"sync/atomic"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/messaging"
)

// Publisher fans decision lifecycle events out to a queue.  Publishing is
// strictly best-effort: the approval/execution path must never block or fail
// because a consumer is slow, so a failed publish increments a counter and is
// otherwise dropped.  The counter makes the swallow observable instead of
// silent.
type Publisher struct {
	queue   messaging.Queue[Event]
	dropped atomic.Int64
}

// NewPublisher creates a lifecycle event publisher.  queue may be nil, which
// turns every publish into a no-op.
func NewPublisher(queue messaging.Queue[Event]) *Publisher {
	return &Publisher{queue: queue}
}

// Publish emits a lifecycle event for the decision.
func (p *Publisher) Publish(ctx context.Context, topic string, d *model.Decision) {
	if p == nil || p.queue == nil || d == nil {
		return
	}
	ev := Event{
		Topic:      topic,
		TenantID:   d.TenantID,
		DecisionID: d.ID,
		Type:       d.Type,
		Status:     d.Status,
		CreatedAt:  clock.NowUTC(),
	}
	if err := p.queue.Publish(ctx, &ev); err != nil {
		p.dropped.Add(1)
	}
}

// Dropped returns how many events could not be published.
func (p *Publisher) Dropped() int64 {
	if p == nil {
		return 0
	}
	return p.dropped.Load()
}
