package event

import (
	"time"

	"github.com/arbiterhq/arbiter/model"
)

// Decision lifecycle topics.
const (
	TopicDecisionProposed = "decision.proposed"
	TopicDecisionApproved = "decision.approved"
	TopicDecisionRejected = "decision.rejected"
	TopicDecisionExecuted = "decision.executed"
	TopicDecisionFailed   = "decision.failed"
	TopicDecisionExpired  = "decision.expired"
)

// Event is the envelope published for every decision lifecycle transition.
type Event struct {
	Topic      string             `json:"topic"`
	TenantID   string             `json:"tenantId"`
	DecisionID string             `json:"decisionId"`
	Type       model.DecisionType `json:"decisionType"`
	Status     model.Status       `json:"status"`
	CreatedAt  time.Time          `json:"createdAt"`
	Headers    map[string]string  `json:"headers,omitempty"`
}
