package audit

import (
	"context"
	"sync"

	"github.com/arbiterhq/arbiter/internal/clock"
)

// Memory is an in-memory audit sink used by tests and single-process setups.
type Memory struct {
	mu      sync.RWMutex
	entries []*Entry
}

var _ Service = (*Memory)(nil)

// NewMemory creates an in-memory audit sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Log appends an entry.
func (m *Memory) Log(_ context.Context, entry *Entry) error {
	if entry == nil {
		return nil
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = clock.NowUTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

// Entries returns a copy of all recorded entries in append order.
func (m *Memory) Entries() []*Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Entry, len(m.entries))
	copy(out, m.entries)
	return out
}
