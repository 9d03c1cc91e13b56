package risk

import "github.com/arbiterhq/arbiter/model"

// Approval gate thresholds.  The mapping is a monotonically non-decreasing
// step function of the risk score; boundary values land on the higher tier.
const (
	executiveThreshold = 70
	managerThreshold   = 40
	auditThreshold     = 10

	// autoExecuteCeiling backs CanAutoExecute, the coarser predicate used by
	// callers deciding whether to skip queueing altogether.  It is
	// intentionally looser than the formal gate.
	autoExecuteCeiling = 30
)

// RequirementFor maps a risk score to the approval level it demands.
func RequirementFor(score int) model.ApprovalLevel {
	switch {
	case score >= executiveThreshold:
		return model.ExecutiveApproval
	case score >= managerThreshold:
		return model.ManagerApproval
	case score >= auditThreshold:
		return model.AuditLog
	default:
		return model.AutoExecute
	}
}

// CanAutoExecute reports whether a score is low enough to bypass the approval
// queue entirely.  Callers wanting the formal gate must use RequirementFor;
// this predicate exists for UI hinting and coarse pre-checks.
func CanAutoExecute(score int) bool {
	return score < autoExecuteCeiling
}
