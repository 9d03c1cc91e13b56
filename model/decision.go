package model

import (
	"encoding/json"
	"time"
)

// DecisionType enumerates the automated business actions the engine knows how
// to execute.  The set is closed: a proposal with an unlisted type scores a
// fixed medium risk and its execution fails with a structured result.
type DecisionType string

const (
	TypeSendInvoice           DecisionType = "send_invoice"
	TypeApplyDiscount         DecisionType = "apply_discount"
	TypeAssignLead            DecisionType = "assign_lead"
	TypeCreatePaymentReminder DecisionType = "create_payment_reminder"
	TypeBulkInvoicePayment    DecisionType = "bulk_invoice_payment"
	TypeChangePaymentTerms    DecisionType = "change_payment_terms"
	TypeCustomerSegmentUpdate DecisionType = "customer_segment_update"
	TypeCreateTask            DecisionType = "create_task"
	TypeAssignTask            DecisionType = "assign_task"
	TypeUpdateDealStage       DecisionType = "update_deal_stage"
)

// Types lists every known decision type.  The executor registry is validated
// against this list so that adding a new type without a handler is caught at
// service construction rather than at dispatch time.
func Types() []DecisionType {
	return []DecisionType{
		TypeSendInvoice,
		TypeApplyDiscount,
		TypeAssignLead,
		TypeCreatePaymentReminder,
		TypeBulkInvoicePayment,
		TypeChangePaymentTerms,
		TypeCustomerSegmentUpdate,
		TypeCreateTask,
		TypeAssignTask,
		TypeUpdateDealStage,
	}
}

// Status represents the lifecycle state of a decision.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusExecuted Status = "executed"
	StatusFailed   Status = "failed"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusExecuted || s == StatusFailed
}

// CanTransition reports whether the pending→{approved,rejected}→{executed,failed}
// state machine permits moving from s to next.  Decisions never move backward.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusExecuted || next == StatusFailed
	}
	return false
}

// ApprovalLevel is the human sign-off tier derived from a risk score.
type ApprovalLevel string

const (
	AutoExecute       ApprovalLevel = "AUTO_EXECUTE"
	AuditLog          ApprovalLevel = "AUDIT_LOG"
	ManagerApproval   ApprovalLevel = "MANAGER_APPROVAL"
	ExecutiveApproval ApprovalLevel = "EXECUTIVE_APPROVAL"
)

// Proposal is the typed input supplied by the upstream proposer (an AI agent
// or an automation rule).  Optional fields use pointers so that "not supplied"
// is distinguishable from a zero value; the scorer falls back to the matrix
// entry defaults for nil fields.
type Proposal struct {
	Type           DecisionType           `json:"type"`
	Description    string                 `json:"description"`
	Recommendation json.RawMessage        `json:"recommendation,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	TenantID       string                 `json:"tenantId"`
	RequestedBy    string                 `json:"requestedBy"`
	AmountPaise    int64                  `json:"amountPaise,omitempty"`
	AffectedUsers  int                    `json:"affectedUsers,omitempty"`
	AffectsRevenue *bool                  `json:"affectsRevenue,omitempty"`
	Reversible     *bool                  `json:"reversible,omitempty"`
}

// Result is the structured outcome of executing (or rolling back) a decision.
// Failures are values, not errors: a missing metadata field, an unknown type
// and an infrastructure fault all surface here so that batch aggregation can
// always complete.
type Result struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Decision is the audit record of record for one proposed action.  It is
// never deleted, only transitioned.
type Decision struct {
	ID              string                 `json:"id"`
	TenantID        string                 `json:"tenantId"`
	Type            DecisionType           `json:"type"`
	Description     string                 `json:"description"`
	Recommendation  json.RawMessage        `json:"recommendation,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	RequestedBy     string                 `json:"requestedBy"`
	RiskScore       int                    `json:"riskScore"`
	ApprovalLevel   ApprovalLevel          `json:"approvalLevel"`
	Status          Status                 `json:"status"`
	DecidedBy       string                 `json:"decidedBy,omitempty"`
	DecisionReason  string                 `json:"decisionReason,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	ExecutedAt      *time.Time             `json:"executedAt,omitempty"`
	ExecutionResult *Result                `json:"executionResult,omitempty"`
}
