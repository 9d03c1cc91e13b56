package memory

import (
	"context"
	"sort"

	"github.com/arbiterhq/arbiter/internal/idgen"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/criteria"
	"github.com/arbiterhq/arbiter/service/dao/store"
)

// Service is an in-memory decision outcome store.  Outcomes are append-only:
// every Save creates a new row (one decision can accumulate several, e.g. an
// execution record followed by a rollback record) and an existing row is
// never overwritten, so the calibration history cannot be rewritten.
type Service struct {
	*store.MemoryStore[string, model.Outcome]
}

var _ dao.Service[string, model.Outcome] = (*Service)(nil)

func outcomeKey(o *model.Outcome) string { return o.ID }

// New creates an in-memory outcome DAO.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[string, model.Outcome](outcomeKey)}
}

// Save appends an outcome, assigning an ID when the caller left it empty.
// Overwriting an existing row is rejected.
func (s *Service) Save(ctx context.Context, o *model.Outcome) error {
	if o == nil {
		return dao.ErrNilEntity
	}
	if o.DecisionID == "" {
		return dao.ErrInvalidID
	}
	if o.ID == "" {
		o.ID = idgen.New()
	}
	if existing, _ := s.MemoryStore.Load(ctx, o.ID); existing != nil {
		return dao.ErrDuplicate
	}
	return s.MemoryStore.Save(ctx, o)
}

// List supports TenantID, Type and Limit parameters.  Results are ordered
// most-recent first, matching how calibration samples the history.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Outcome, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}

	tenant, _ := criteria.Filter(dao.ParamTenantID, parameters)
	oType, _ := criteria.Filter(dao.ParamType, parameters)

	var out []*model.Outcome
	for _, o := range all {
		if tenant != nil && !criteria.Matches(o.TenantID, tenant) {
			continue
		}
		if oType != nil && !criteria.Matches(string(o.Type), oType) {
			continue
		}
		out = append(out, o)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if limit := criteria.Limit(parameters); limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
