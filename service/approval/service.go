package approval

import (
	"context"
	"time"

	"github.com/arbiterhq/arbiter/model"
)

// DefaultTTL is how long a decision waits for human sign-off before the
// expiry sweep rejects it.
const DefaultTTL = 24 * time.Hour

// Service gates decisions that require human sign-off.  Enqueue parks a
// pending decision, Decide resolves it, and Expire rejects everything whose
// approval window has passed.
type Service interface {
	// Enqueue creates a queue entry for a pending decision.  Priority is the
	// decision's risk score so that the riskiest items surface first.
	Enqueue(ctx context.Context, decision *model.Decision) (*model.QueueEntry, error)

	// ListPending returns unresolved entries, highest priority first,
	// optionally scoped to a tenant.
	ListPending(ctx context.Context, tenantID string) ([]*model.QueueEntry, error)

	// Decide resolves a pending decision.  Approval moves it to approved,
	// rejection to rejected; either way the queue entry is consumed.  A
	// decision that already left pending returns an error.
	Decide(ctx context.Context, decisionID string, approved bool, decidedBy, reason string) (*model.Decision, error)

	// Expire rejects every pending decision whose entry expired before now
	// and returns how many were rejected.  Entries whose decision already
	// resolved are dropped without counting.
	Expire(ctx context.Context, now time.Time) (int, error)
}

// RequiredApprovers maps an approval level to the roles that may sign off.
func RequiredApprovers(level model.ApprovalLevel) []string {
	switch level {
	case model.ExecutiveApproval:
		return []string{"executive"}
	case model.ManagerApproval:
		return []string{"manager", "executive"}
	}
	return nil
}
