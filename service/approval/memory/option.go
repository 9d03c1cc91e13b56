package memory

import (
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/event"
)

// Option customises the approval service.
type Option func(*service)

// WithPublisher attaches a lifecycle event publisher.
func WithPublisher(publisher *event.Publisher) Option {
	return func(s *service) {
		s.publisher = publisher
	}
}

// WithTTL overrides the approval window for new queue entries.
func WithTTL(ttl time.Duration) Option {
	return func(s *service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithEntryStore swaps the queue entry store, e.g. for a persistent backend.
func WithEntryStore(entries dao.Service[string, model.QueueEntry]) Option {
	return func(s *service) {
		if entries != nil {
			s.entries = entries
		}
	}
}
