package model

import "time"

// QueueEntry links a decision awaiting human sign-off to its expiry deadline.
// Entries are consumed implicitly: the expiry sweep rejects the linked
// decision when the deadline passes while it is still pending; entries whose
// decision already resolved are left untouched.
type QueueEntry struct {
	DecisionID        string    `json:"decisionId"`
	TenantID          string    `json:"tenantId"`
	RequiredApprovers []string  `json:"requiredApprovers,omitempty"`
	Priority          int       `json:"priority"` // risk score, higher risk surfaces first
	CreatedAt         time.Time `json:"createdAt"`
	ExpiresAt         time.Time `json:"expiresAt"`
}
