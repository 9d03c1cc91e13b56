package policy

import (
	"context"

	"github.com/arbiterhq/arbiter/model"
)

// CalibrationMetrics summarises how well risk scores predicted reality over
// the recent outcome history.
type CalibrationMetrics struct {
	TotalDecisions   int     `json:"totalDecisions"`
	AutoExecuted     int     `json:"autoExecuted"`
	Approved         int     `json:"approved"`
	Rejected         int     `json:"rejected"`
	RolledBack       int     `json:"rolledBack"`
	SuccessRate      float64 `json:"successRate"`
	AverageRiskScore float64 `json:"averageRiskScore"`

	// FalsePositiveRate is the share of sampled outcomes that scored below
	// the low risk band yet had to be rolled back.
	FalsePositiveRate float64 `json:"falsePositiveRate"`

	// FalseNegativeRate is the share of sampled outcomes that scored at or
	// above the high risk band yet executed cleanly.
	FalseNegativeRate float64 `json:"falseNegativeRate"`
}

// Calibration computes metrics over the most recent outcomes (up to the
// sample bound) for a tenant, optionally narrowed to one decision type.  An
// empty history yields all-zero metrics rather than an error.
func (m *Manager) Calibration(ctx context.Context, tenantID string, t model.DecisionType) (*CalibrationMetrics, error) {
	outcomes, err := m.Outcomes(ctx, tenantID, t, calibrationSampleSize)
	if err != nil {
		return nil, err
	}

	metrics := &CalibrationMetrics{TotalDecisions: len(outcomes)}
	if metrics.TotalDecisions == 0 {
		return metrics, nil
	}

	successful := 0
	riskSum := 0
	lowRiskRolledBack := 0
	highRiskSucceeded := 0
	for _, o := range outcomes {
		riskSum += o.RiskScore
		if o.ApprovalLevel == model.AutoExecute {
			metrics.AutoExecuted++
		}
		if o.WasApproved {
			metrics.Approved++
		}
		if o.WasRejected {
			metrics.Rejected++
		}
		if o.WasRolledBack {
			metrics.RolledBack++
		}
		if o.ExecutionSuccess {
			successful++
		}
		if o.RiskScore < lowRiskCeiling && o.WasRolledBack {
			lowRiskRolledBack++
		}
		if o.RiskScore >= highRiskFloor && o.ExecutionSuccess && !o.WasRolledBack {
			highRiskSucceeded++
		}
	}

	total := float64(metrics.TotalDecisions)
	metrics.SuccessRate = float64(successful) / total
	metrics.AverageRiskScore = float64(riskSum) / total
	metrics.FalsePositiveRate = float64(lowRiskRolledBack) / total
	metrics.FalseNegativeRate = float64(highRiskSucceeded) / total
	return metrics, nil
}
