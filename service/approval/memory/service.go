package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/approval"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/decision"
	"github.com/arbiterhq/arbiter/service/dao/store"
	"github.com/arbiterhq/arbiter/service/event"
)

type service struct {
	decisions decision.Service
	entries   dao.Service[string, model.QueueEntry]
	publisher *event.Publisher
	ttl       time.Duration
}

var _ approval.Service = (*service)(nil)

func entryKey(e *model.QueueEntry) string { return e.DecisionID }

// New creates an in-memory approval service on top of the decision store.
func New(decisions decision.Service, options ...Option) approval.Service {
	ret := &service{
		decisions: decisions,
		entries:   store.NewMemoryStore[string, model.QueueEntry](entryKey),
		ttl:       approval.DefaultTTL,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *service) Enqueue(ctx context.Context, aDecision *model.Decision) (*model.QueueEntry, error) {
	if aDecision == nil {
		return nil, errors.New("invalid decision")
	}
	if aDecision.Status != model.StatusPending {
		return nil, fmt.Errorf("decision %v is %v, only pending decisions can be queued", aDecision.ID, aDecision.Status)
	}
	now := clock.NowUTC()
	entry := &model.QueueEntry{
		DecisionID:        aDecision.ID,
		TenantID:          aDecision.TenantID,
		RequiredApprovers: approval.RequiredApprovers(aDecision.ApprovalLevel),
		Priority:          aDecision.RiskScore,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.ttl),
	}
	if err := s.entries.Save(ctx, entry); err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, event.TopicDecisionProposed, aDecision)
	return entry, nil
}

func (s *service) ListPending(ctx context.Context, tenantID string) ([]*model.QueueEntry, error) {
	all, err := s.entries.List(ctx)
	if err != nil {
		return nil, err
	}
	pending := make([]*model.QueueEntry, 0, len(all))
	for _, entry := range all {
		if tenantID != "" && entry.TenantID != tenantID {
			continue
		}
		pending = append(pending, entry)
	}
	sort.SliceStable(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority > pending[j].Priority
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *service) Decide(ctx context.Context, decisionID string, approved bool, decidedBy, reason string) (*model.Decision, error) {
	if decisionID == "" {
		return nil, errors.New("empty decision id")
	}
	target := model.StatusApproved
	topic := event.TopicDecisionApproved
	if !approved {
		target = model.StatusRejected
		topic = event.TopicDecisionRejected
	}
	ok, err := s.decisions.Transition(ctx, decisionID, model.StatusPending, target, func(d *model.Decision) {
		d.DecidedBy = decidedBy
		d.DecisionReason = reason
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("decision %v already resolved", decisionID)
	}
	_ = s.entries.Delete(ctx, decisionID)

	aDecision, err := s.decisions.Load(ctx, decisionID)
	if err != nil {
		return nil, err
	}
	s.publisher.Publish(ctx, topic, aDecision)
	return aDecision, nil
}

func (s *service) Expire(ctx context.Context, now time.Time) (int, error) {
	all, err := s.entries.List(ctx)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, entry := range all {
		if entry.ExpiresAt.After(now) {
			continue
		}
		ok, err := s.decisions.Transition(ctx, entry.DecisionID, model.StatusPending, model.StatusRejected, func(d *model.Decision) {
			d.DecidedBy = "system"
			d.DecisionReason = "approval window expired"
		})
		if err != nil && !errors.Is(err, dao.ErrNotFound) {
			return expired, err
		}
		if !ok {
			// The decision resolved before its window closed; the entry stays
			// untouched and is never counted.
			continue
		}
		_ = s.entries.Delete(ctx, entry.DecisionID)
		expired++
		if aDecision, _ := s.decisions.Load(ctx, entry.DecisionID); aDecision != nil {
			s.publisher.Publish(ctx, event.TopicDecisionExpired, aDecision)
		}
	}
	return expired, nil
}
