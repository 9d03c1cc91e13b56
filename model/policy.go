package model

import "time"

// RiskPolicy is a tenant administrator's override of the default risk matrix
// for one decision type.  All override fields are optional; nil means "keep
// the default".  The engine treats policies as read-only.
type RiskPolicy struct {
	TenantID                 string       `json:"tenantId"`
	Type                     DecisionType `json:"decisionType"`
	CustomBaseRisk           *int         `json:"customBaseRisk,omitempty"`
	AmountThresholdPaise     *int64       `json:"amountThresholdPaise,omitempty"`
	AutoApproveThreshold     *int         `json:"autoApproveThreshold,omitempty"`
	RequireApprovalThreshold *int         `json:"requireApprovalThreshold,omitempty"`
	MaxAutoExecutePaise      *int64       `json:"maxAutoExecutePaise,omitempty"`
	Enabled                  bool         `json:"enabled"`
	CreatedAt                time.Time    `json:"createdAt"`
	UpdatedAt                time.Time    `json:"updatedAt"`
}

// PolicyKey is the composite (tenant, decision type) key under which a policy
// row is stored.  Upserts by this key never create duplicate rows.
type PolicyKey struct {
	TenantID string
	Type     DecisionType
}

// Key returns the composite storage key for p.
func (p *RiskPolicy) Key() PolicyKey {
	return PolicyKey{TenantID: p.TenantID, Type: p.Type}
}
