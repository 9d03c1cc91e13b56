package decision

import (
	"context"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
)

// Service is the decision store contract.  On top of generic CRUD it exposes
// the two operations whose semantics the engine's correctness depends on:
// an ordered listing of executable decisions and a conditional claim that
// provides mutual exclusion between overlapping batch runs.
type Service interface {
	dao.Service[string, model.Decision]

	// ListExecutable returns approved decisions with no execution timestamp,
	// oldest-created first, optionally scoped to a tenant, limited to limit
	// (0 = no limit).  Ordering determines admission order only; completion
	// order within a batch is unspecified.
	ListExecutable(ctx context.Context, tenantID string, limit int) ([]*model.Decision, error)

	// Claim atomically stamps ExecutedAt on an approved, unexecuted decision
	// and returns its current value.  A decision that is not approved or was
	// already claimed returns dao.ErrAlreadyClaimed; callers must claim
	// before executing.
	Claim(ctx context.Context, id string, now time.Time) (*model.Decision, error)

	// Transition moves a decision from one status to another under an
	// optimistic check on the current status, applying mutate while the
	// record is locked.  Illegal or stale transitions leave the record
	// untouched and return ok=false without an error.
	Transition(ctx context.Context, id string, from, to model.Status, mutate func(*model.Decision)) (bool, error)
}
