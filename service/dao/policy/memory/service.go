package memory

import (
	"context"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/criteria"
	"github.com/arbiterhq/arbiter/service/dao/store"
)

// Service is an in-memory risk policy store keyed by the composite
// (tenant, decision type) key, so an upsert can never duplicate rows.
type Service struct {
	*store.MemoryStore[model.PolicyKey, model.RiskPolicy]
}

var _ dao.Service[model.PolicyKey, model.RiskPolicy] = (*Service)(nil)

func policyKey(p *model.RiskPolicy) model.PolicyKey { return p.Key() }

// New creates an in-memory policy DAO.
func New() *Service {
	return &Service{MemoryStore: store.NewMemoryStore[model.PolicyKey, model.RiskPolicy](policyKey)}
}

// Save validates the composite key before delegating to the embedded store.
func (s *Service) Save(ctx context.Context, p *model.RiskPolicy) error {
	if p == nil {
		return dao.ErrNilEntity
	}
	if p.TenantID == "" || p.Type == "" {
		return dao.ErrInvalidID
	}
	return s.MemoryStore.Save(ctx, p)
}

// List supports the TenantID filter.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.RiskPolicy, error) {
	all, err := s.MemoryStore.List(ctx)
	if err != nil {
		return nil, err
	}
	tenant, ok := criteria.Filter(dao.ParamTenantID, parameters)
	if !ok {
		return all, nil
	}
	var out []*model.RiskPolicy
	for _, p := range all {
		if criteria.Matches(p.TenantID, tenant) {
			out = append(out, p)
		}
	}
	return out, nil
}
