// Package policy merges tenant risk policies over the default matrix and
// tracks historical decision outcomes for risk calibration.
package policy

import (
	"context"
	"sync/atomic"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/risk"
	"github.com/arbiterhq/arbiter/service/dao"
)

// calibrationSampleSize bounds how much history one metrics call scans.
const calibrationSampleSize = 1000

// Risk bands used by the calibration rates.  A decision below the low band
// that was rolled back counts as a false positive (scored too low); one at or
// above the high band that succeeded counts as a false negative (scored too
// high).
const (
	lowRiskCeiling = 30
	highRiskFloor  = 60
)

// Manager owns tenant risk policies and the outcome history.  It implements
// risk.EntryProvider, which is how policy overrides reach the scorer.
type Manager struct {
	policies  dao.Service[model.PolicyKey, model.RiskPolicy]
	outcomes  dao.Service[string, model.Outcome]
	swallowed atomic.Int64
}

var _ risk.EntryProvider = (*Manager)(nil)

// New creates a policy manager.
func New(policies dao.Service[model.PolicyKey, model.RiskPolicy], outcomes dao.Service[string, model.Outcome]) *Manager {
	return &Manager{policies: policies, outcomes: outcomes}
}

// Policy returns the stored policy for (tenant, type), or nil when none.
func (m *Manager) Policy(ctx context.Context, tenantID string, t model.DecisionType) (*model.RiskPolicy, error) {
	return m.policies.Load(ctx, model.PolicyKey{TenantID: tenantID, Type: t})
}

// SetPolicy upserts a policy by its composite key.  The original creation
// timestamp survives updates; UpdatedAt is always stamped.
func (m *Manager) SetPolicy(ctx context.Context, p *model.RiskPolicy) (*model.RiskPolicy, error) {
	if p == nil {
		return nil, dao.ErrNilEntity
	}
	now := clock.NowUTC()
	existing, err := m.policies.Load(ctx, p.Key())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if err := m.policies.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// EffectiveEntry resolves the matrix entry the scorer should use for a
// tenant.  A missing or disabled policy yields the default; an enabled one
// overrides base risk and amount threshold only.  Revenue and reversibility
// flags always come from the default matrix.
func (m *Manager) EffectiveEntry(ctx context.Context, tenantID string, t model.DecisionType) (risk.Entry, error) {
	entry, ok := risk.MatrixEntry(t)
	if !ok {
		return risk.Entry{BaseRisk: risk.DefaultRiskScore}, nil
	}
	p, err := m.Policy(ctx, tenantID, t)
	if err != nil {
		return entry, err
	}
	if p == nil || !p.Enabled {
		return entry, nil
	}
	if p.CustomBaseRisk != nil {
		entry.BaseRisk = *p.CustomBaseRisk
	}
	if p.AmountThresholdPaise != nil {
		entry.AmountThresholdPaise = *p.AmountThresholdPaise
	}
	return entry, nil
}

// RecordOutcome appends an outcome to the history.  Tracking never breaks the
// decision flow: persistence failures are counted and dropped.
func (m *Manager) RecordOutcome(ctx context.Context, o *model.Outcome) {
	if o == nil {
		return
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = clock.NowUTC()
	}
	if err := m.outcomes.Save(ctx, o); err != nil {
		m.swallowed.Add(1)
	}
}

// SwallowedOutcomes returns how many outcome records were dropped because the
// store rejected them.
func (m *Manager) SwallowedOutcomes() int64 {
	return m.swallowed.Load()
}

// Outcomes returns the most recent outcomes for a tenant, optionally filtered
// by decision type, newest first.
func (m *Manager) Outcomes(ctx context.Context, tenantID string, t model.DecisionType, limit int) ([]*model.Outcome, error) {
	parameters := []*dao.Parameter{dao.NewParameter(dao.ParamTenantID, tenantID)}
	if t != "" {
		parameters = append(parameters, dao.NewParameter(dao.ParamType, string(t)))
	}
	if limit > 0 {
		parameters = append(parameters, dao.WithLimit(limit))
	}
	return m.outcomes.List(ctx, parameters...)
}
