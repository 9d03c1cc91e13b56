package audit

import (
	"context"
	"time"

	"github.com/arbiterhq/arbiter/model"
)

// Entry is one append-only audit record.  Every executor call, execute or
// rollback, produces exactly one entry regardless of outcome.
type Entry struct {
	TenantID   string                 `json:"tenantId"`
	Actor      string                 `json:"actor"`
	Type       model.DecisionType     `json:"decisionType"`
	DecisionID string                 `json:"decisionId"`
	Message    string                 `json:"message"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

// Service is an append-only audit sink.
type Service interface {
	Log(ctx context.Context, entry *Entry) error
}
