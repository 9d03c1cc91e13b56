package risk_test

import (
	"context"
	"testing"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/risk"
	"github.com/stretchr/testify/assert"
)

func boolPtr(v bool) *bool { return &v }

// fixedProvider returns the same entry for every lookup.
type fixedProvider struct {
	entry risk.Entry
}

func (p *fixedProvider) EffectiveEntry(context.Context, string, model.DecisionType) (risk.Entry, error) {
	return p.entry, nil
}

func TestScorer_Score(t *testing.T) {
	type testCase struct {
		name     string
		proposal model.Proposal
		expected int
	}

	tests := []testCase{
		{
			name: "discount at 12x threshold escalates to 75",
			proposal: model.Proposal{
				Type:        model.TypeApplyDiscount,
				TenantID:    "t1",
				AmountPaise: 60_000_000,
			},
			expected: 75,
		},
		{
			name: "payment reminder stays at base",
			proposal: model.Proposal{
				Type:     model.TypeCreatePaymentReminder,
				TenantID: "t1",
			},
			expected: 2,
		},
		{
			name: "unknown type scores flat default",
			proposal: model.Proposal{
				Type:     model.DecisionType("launch_rocket"),
				TenantID: "t1",
			},
			expected: 50,
		},
		{
			name: "amount just above threshold adds 10",
			proposal: model.Proposal{
				Type:        model.TypeSendInvoice,
				TenantID:    "t1",
				AmountPaise: 10_000_001,
			},
			expected: 25,
		},
		{
			name: "amount above 5x threshold adds 20",
			proposal: model.Proposal{
				Type:        model.TypeSendInvoice,
				TenantID:    "t1",
				AmountPaise: 50_000_001,
			},
			expected: 35 + 15, // 15 base + 20 amount + 15 revenue above escalation
		},
		{
			name: "affected users bands",
			proposal: model.Proposal{
				Type:          model.TypeCustomerSegmentUpdate,
				TenantID:      "t1",
				AffectedUsers: 101,
			},
			expected: 23, // 8 base + 15 users
		},
		{
			name: "irreversible adds 25",
			proposal: model.Proposal{
				Type:       model.TypeCreateTask,
				TenantID:   "t1",
				Reversible: boolPtr(false),
			},
			expected: 28,
		},
		{
			name: "bulk payment default irreversible",
			proposal: model.Proposal{
				Type:     model.TypeBulkInvoicePayment,
				TenantID: "t1",
			},
			expected: 75, // 50 base + 25 irreversible
		},
		{
			name: "score clamps at 100",
			proposal: model.Proposal{
				Type:          model.TypeBulkInvoicePayment,
				TenantID:      "t1",
				AmountPaise:   2_000_000_001,
				AffectedUsers: 5000,
			},
			expected: 100, // 50 + 30 + 20 + 25 + 15 = 140 clamped
		},
	}

	scorer := risk.NewScorer(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := scorer.Score(context.Background(), &tc.proposal)
			assert.Equal(t, tc.expected, actual)
			assert.GreaterOrEqual(t, actual, 0)
			assert.LessOrEqual(t, actual, 100)
		})
	}
}

func TestScorer_ProviderOverride(t *testing.T) {
	provider := &fixedProvider{entry: risk.Entry{
		BaseRisk:             60,
		AffectsRevenue:       false,
		DefaultReversible:    true,
		AmountThresholdPaise: 5_000_000,
	}}
	scorer := risk.NewScorer(provider)

	actual := scorer.Score(context.Background(), &model.Proposal{
		Type:     model.TypeApplyDiscount,
		TenantID: "t1",
	})
	assert.Equal(t, 60, actual)

	// Proposals without a tenant never consult the provider.
	actual = scorer.Score(context.Background(), &model.Proposal{Type: model.TypeApplyDiscount})
	assert.Equal(t, 45, actual)
}
