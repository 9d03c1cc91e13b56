package policy

import (
	"context"
	"fmt"
	"strings"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/risk"
	"github.com/pmezard/go-difflib/difflib"
)

// MatrixDiff renders a unified diff between the default matrix entry and the
// tenant's effective entry for one decision type.  An empty string means the
// tenant runs on defaults.  Admin tooling surfaces this when reviewing policy
// changes.
func (m *Manager) MatrixDiff(ctx context.Context, tenantID string, t model.DecisionType) (string, error) {
	defaults, ok := risk.MatrixEntry(t)
	if !ok {
		return "", fmt.Errorf("unknown decision type %v", t)
	}
	effective, err := m.EffectiveEntry(ctx, tenantID, t)
	if err != nil {
		return "", err
	}
	if effective == defaults {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(renderEntry(defaults)),
		B:        difflib.SplitLines(renderEntry(effective)),
		FromFile: fmt.Sprintf("%v (default)", t),
		ToFile:   fmt.Sprintf("%v (%v)", t, tenantID),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

func renderEntry(e risk.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "baseRisk: %d\n", e.BaseRisk)
	fmt.Fprintf(&b, "affectsRevenue: %v\n", e.AffectsRevenue)
	fmt.Fprintf(&b, "defaultReversible: %v\n", e.DefaultReversible)
	fmt.Fprintf(&b, "amountThresholdPaise: %d\n", e.AmountThresholdPaise)
	return b.String()
}
