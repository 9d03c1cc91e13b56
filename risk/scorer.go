package risk

import (
	"context"

	"github.com/arbiterhq/arbiter/model"
)

// EntryProvider resolves the effective (policy-merged) matrix entry for a
// tenant.  The policy manager implements it; the scorer only needs this
// single read.
type EntryProvider interface {
	EffectiveEntry(ctx context.Context, tenantID string, t model.DecisionType) (Entry, error)
}

// Scorer computes the 0..100 risk score for a proposal.  A nil provider (or a
// provider lookup failure) falls back to the default matrix; scoring never
// blocks on the policy store.
type Scorer struct {
	provider EntryProvider
}

// NewScorer creates a scorer.  provider may be nil.
func NewScorer(provider EntryProvider) *Scorer {
	return &Scorer{provider: provider}
}

// Score computes the risk score for p.  Unknown decision types score a flat
// medium default so that an unrecognised action can never auto-execute.
//
// The escalation order and breakpoints are normative: base risk, amount vs
// threshold, affected users, irreversibility, revenue impact, clamp.
func (s *Scorer) Score(ctx context.Context, p *model.Proposal) int {
	entry, ok := MatrixEntry(p.Type)
	if !ok {
		return DefaultRiskScore
	}

	if s.provider != nil && p.TenantID != "" {
		if effective, err := s.provider.EffectiveEntry(ctx, p.TenantID, p.Type); err == nil {
			entry = effective
		}
		// lookup failure: keep the default entry and continue
	}

	score := entry.BaseRisk

	if p.AmountPaise > 0 && entry.AmountThresholdPaise > 0 {
		switch {
		case p.AmountPaise > 10*entry.AmountThresholdPaise:
			score += 30
		case p.AmountPaise > 5*entry.AmountThresholdPaise:
			score += 20
		case p.AmountPaise > entry.AmountThresholdPaise:
			score += 10
		}
	}

	switch {
	case p.AffectedUsers > 1000:
		score += 20
	case p.AffectedUsers > 100:
		score += 15
	case p.AffectedUsers > 50:
		score += 10
	case p.AffectedUsers > 10:
		score += 5
	}

	reversible := entry.DefaultReversible
	if p.Reversible != nil {
		reversible = *p.Reversible
	}
	if !reversible {
		score += 25
	}

	affectsRevenue := entry.AffectsRevenue
	if p.AffectsRevenue != nil {
		affectsRevenue = *p.AffectsRevenue
	}
	if affectsRevenue && p.AmountPaise > RevenueEscalationPaise {
		score += 15
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
