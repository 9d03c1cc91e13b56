package model

import "time"

// Impact captures what a decision actually changed, observed post-hoc.
// Amounts use integer minor units (paise).
type Impact struct {
	AmountPaise   int64 `json:"amountPaise,omitempty"`
	AffectedUsers int   `json:"affectedUsers,omitempty"`
	RevenuePaise  int64 `json:"revenuePaise,omitempty"`
}

// Outcome is the immutable historical record of a decision's terminal state.
// It is append-only and consumed exclusively by calibration analytics; the
// live approval path never reads it.
type Outcome struct {
	ID               string        `json:"id"`
	DecisionID       string        `json:"decisionId"`
	TenantID         string        `json:"tenantId"`
	Type             DecisionType  `json:"decisionType"`
	RiskScore        int           `json:"riskScore"`
	ApprovalLevel    ApprovalLevel `json:"approvalLevel"`
	Status           Status        `json:"status"`
	WasApproved      bool          `json:"wasApproved"`
	WasRejected      bool          `json:"wasRejected"`
	WasRolledBack    bool          `json:"wasRolledBack"`
	ExecutionSuccess bool          `json:"executionSuccess"`
	ExecutionError   string        `json:"executionError,omitempty"`
	ActualImpact     *Impact       `json:"actualImpact,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
}
