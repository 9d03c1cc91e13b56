package risk

import "github.com/arbiterhq/arbiter/model"

// Entry is one row of the risk matrix: the starting risk for a decision type
// plus the flags the scorer escalates on.  Amounts are integer minor units
// (paise).
type Entry struct {
	BaseRisk             int   `json:"baseRisk"`
	AffectsRevenue       bool  `json:"affectsRevenue"`
	DefaultReversible    bool  `json:"defaultReversible"`
	AmountThresholdPaise int64 `json:"amountThresholdPaise"`
}

// DefaultRiskScore is returned for unrecognised decision types.  An unknown
// action must never silently auto-execute, so it lands in the middle of the
// scale where the gate demands manager approval.
const DefaultRiskScore = 50

// RevenueEscalationPaise is the amount above which a revenue-affecting action
// picks up an extra escalation (₹500,000).
const RevenueEscalationPaise int64 = 50_000_000

// matrix is the global default; tenant overrides never mutate it.  Values are
// tuned against the calibration feedback loop, see the policy manager's
// false positive/negative rates.
var matrix = map[model.DecisionType]Entry{
	model.TypeSendInvoice:           {BaseRisk: 15, AffectsRevenue: true, DefaultReversible: true, AmountThresholdPaise: 10_000_000},
	model.TypeApplyDiscount:         {BaseRisk: 45, AffectsRevenue: false, DefaultReversible: true, AmountThresholdPaise: 5_000_000},
	model.TypeAssignLead:            {BaseRisk: 10, AffectsRevenue: false, DefaultReversible: true},
	model.TypeCreatePaymentReminder: {BaseRisk: 2, AffectsRevenue: false, DefaultReversible: true},
	model.TypeBulkInvoicePayment:    {BaseRisk: 50, AffectsRevenue: true, DefaultReversible: false, AmountThresholdPaise: 20_000_000},
	model.TypeChangePaymentTerms:    {BaseRisk: 40, AffectsRevenue: true, DefaultReversible: true, AmountThresholdPaise: 10_000_000},
	model.TypeCustomerSegmentUpdate: {BaseRisk: 8, AffectsRevenue: false, DefaultReversible: true},
	model.TypeCreateTask:            {BaseRisk: 3, AffectsRevenue: false, DefaultReversible: true},
	model.TypeAssignTask:            {BaseRisk: 5, AffectsRevenue: false, DefaultReversible: true},
	model.TypeUpdateDealStage:       {BaseRisk: 30, AffectsRevenue: true, DefaultReversible: true, AmountThresholdPaise: 50_000_000},
}

// MatrixEntry returns the default matrix entry for t.  The second return
// value is false for unknown types.
func MatrixEntry(t model.DecisionType) (Entry, bool) {
	e, ok := matrix[t]
	return e, ok
}
