package memory

import (
	"context"
	"sort"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/criteria"
	ddao "github.com/arbiterhq/arbiter/service/dao/decision"
	"github.com/arbiterhq/arbiter/service/dao/store"
)

// Service is an in-memory decision store.
type Service struct {
	*store.MemoryStore[string, model.Decision]
}

var _ ddao.Service = (*Service)(nil)

func decisionKey(d *model.Decision) string { return d.ID }

// New creates an in-memory decision DAO.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[string, model.Decision](decisionKey)}
}

// Save validates the record before delegating to the embedded store.
func (s *Service) Save(ctx context.Context, d *model.Decision) error {
	if d == nil {
		return dao.ErrNilEntity
	}
	if d.ID == "" {
		return dao.ErrInvalidID
	}
	return s.MemoryStore.Save(ctx, d)
}

// List supports TenantID, Status, Type, Unexecuted and Limit parameters.
// Results are ordered oldest-created first so that pagination is stable.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Decision, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}

	tenant, _ := criteria.Filter(dao.ParamTenantID, parameters)
	status, _ := criteria.Filter(dao.ParamStatus, parameters)
	dType, _ := criteria.Filter(dao.ParamType, parameters)
	unexecuted, _ := criteria.Filter(dao.ParamUnexecuted, parameters)

	var out []*model.Decision
	for _, d := range all {
		if tenant != nil && !criteria.Matches(d.TenantID, tenant) {
			continue
		}
		if status != nil && !criteria.Matches(string(d.Status), status) {
			continue
		}
		if dType != nil && !criteria.Matches(string(d.Type), dType) {
			continue
		}
		if wantUnexecuted, ok := unexecuted.(bool); ok && wantUnexecuted && d.ExecutedAt != nil {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if limit := criteria.Limit(parameters); limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListExecutable returns approved, unexecuted decisions oldest first.
func (s *Service) ListExecutable(ctx context.Context, tenantID string, limit int) ([]*model.Decision, error) {
	parameters := []*dao.Parameter{
		{Name: dao.ParamStatus, Value: string(model.StatusApproved)},
		{Name: dao.ParamUnexecuted, Value: true},
	}
	if tenantID != "" {
		parameters = append(parameters, &dao.Parameter{Name: dao.ParamTenantID, Value: tenantID})
	}
	if limit > 0 {
		parameters = append(parameters, dao.WithLimit(limit))
	}
	return s.List(ctx, parameters...)
}

// Claim stamps ExecutedAt under the store lock; the stamp is what makes a
// second concurrent batch run skip the decision.
func (s *Service) Claim(ctx context.Context, id string, now time.Time) (*model.Decision, error) {
	var claimed *model.Decision
	ok, err := s.MemoryStore.Update(ctx, id, func(d *model.Decision) bool {
		if d.Status != model.StatusApproved || d.ExecutedAt != nil {
			return false
		}
		at := now
		d.ExecutedAt = &at
		claimed = d
		return true
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, dao.ErrAlreadyClaimed
	}
	return claimed, nil
}

// Transition applies the optimistic status check and mutation atomically.
func (s *Service) Transition(ctx context.Context, id string, from, to model.Status, mutate func(*model.Decision)) (bool, error) {
	if !from.CanTransition(to) {
		return false, nil
	}
	return s.MemoryStore.Update(ctx, id, func(d *model.Decision) bool {
		if d.Status != from {
			return false
		}
		d.Status = to
		if mutate != nil {
			mutate(d)
		}
		return true
	})
}
