package arbiter

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/internal/idgen"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/risk"
	"github.com/arbiterhq/arbiter/service/approval"
	"github.com/arbiterhq/arbiter/service/batch"
	"github.com/arbiterhq/arbiter/service/dao/decision"
	"github.com/arbiterhq/arbiter/service/event"
	"github.com/arbiterhq/arbiter/service/executor"
	"github.com/arbiterhq/arbiter/service/policy"
	"github.com/arbiterhq/arbiter/tracing"
)

// Runtime is the operation surface of the engine: propose, decide, drain,
// expire, calibrate.
type Runtime struct {
	decisions decision.Service
	executor  executor.Service
	policies  *policy.Manager
	scorer    *risk.Scorer
	approvals approval.Service
	batch     *batch.Service
	publisher *event.Publisher
}

// Propose scores a proposal, gates it and persists the resulting decision.
// AUTO_EXECUTE and AUDIT_LOG decisions execute inline and the returned result
// is non-nil; gated decisions are parked in the approval queue and the result
// is nil.
func (r *Runtime) Propose(ctx context.Context, proposal *model.Proposal) (*model.Decision, *model.Result, error) {
	var err error
	ctx, span := tracing.StartSpan(ctx, "runtime.Propose", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	if proposal == nil || proposal.Type == "" {
		err = fmt.Errorf("proposal type is required")
		return nil, nil, err
	}
	if proposal.TenantID == "" {
		err = fmt.Errorf("proposal tenant is required")
		return nil, nil, err
	}

	score := r.scorer.Score(ctx, proposal)
	level := risk.RequirementFor(score)
	span.WithAttributes(map[string]string{
		"decision.type":  string(proposal.Type),
		"risk.score":     strconv.Itoa(score),
		"approval.level": string(level),
	})

	aDecision := &model.Decision{
		ID:             idgen.New(),
		TenantID:       proposal.TenantID,
		Type:           proposal.Type,
		Description:    proposal.Description,
		Recommendation: proposal.Recommendation,
		Metadata:       proposal.Metadata,
		RequestedBy:    proposal.RequestedBy,
		RiskScore:      score,
		ApprovalLevel:  level,
		Status:         model.StatusPending,
		CreatedAt:      clock.NowUTC(),
	}
	if err = r.decisions.Save(ctx, aDecision); err != nil {
		return nil, nil, err
	}

	switch level {
	case model.AutoExecute:
		result, execErr := r.executeInline(ctx, aDecision.ID, "auto-approved", false)
		if execErr != nil {
			err = execErr
			return aDecision, nil, err
		}
		return r.reload(ctx, aDecision), result, nil
	case model.AuditLog:
		result, execErr := r.executeInline(ctx, aDecision.ID, "auto-approved with audit trail", true)
		if execErr != nil {
			err = execErr
			return aDecision, nil, err
		}
		return r.reload(ctx, aDecision), result, nil
	default:
		if _, err = r.approvals.Enqueue(ctx, aDecision); err != nil {
			return aDecision, nil, err
		}
		return aDecision, nil, nil
	}
}

// executeInline approves and executes a freshly proposed decision in the
// caller's request.
func (r *Runtime) executeInline(ctx context.Context, id, reason string, recordOutcome bool) (*model.Result, error) {
	ok, err := r.decisions.Transition(ctx, id, model.StatusPending, model.StatusApproved, func(d *model.Decision) {
		d.DecidedBy = "system"
		d.DecisionReason = reason
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("decision %v left pending before inline execution", id)
	}
	return r.batch.Execute(ctx, id, recordOutcome, false)
}

func (r *Runtime) reload(ctx context.Context, d *model.Decision) *model.Decision {
	if stored, _ := r.decisions.Load(ctx, d.ID); stored != nil {
		return stored
	}
	return d
}

// Decide resolves a queued decision on behalf of a human approver.
func (r *Runtime) Decide(ctx context.Context, decisionID string, approved bool, decidedBy, reason string) (*model.Decision, error) {
	return r.approvals.Decide(ctx, decisionID, approved, decidedBy, reason)
}

// Decision returns one decision by ID, or nil.
func (r *Runtime) Decision(ctx context.Context, id string) (*model.Decision, error) {
	return r.decisions.Load(ctx, id)
}

// PendingApprovals lists unresolved queue entries, highest priority first.
func (r *Runtime) PendingApprovals(ctx context.Context, tenantID string) ([]*model.QueueEntry, error) {
	return r.approvals.ListPending(ctx, tenantID)
}

// ProcessBatch drains approved decisions for a tenant (empty means all) with
// bounded concurrency.
func (r *Runtime) ProcessBatch(ctx context.Context, tenantID string) (*batch.Report, error) {
	return r.batch.Process(ctx, tenantID)
}

// ExpireOldApprovals rejects pending decisions whose approval window has
// passed and returns how many were rejected.
func (r *Runtime) ExpireOldApprovals(ctx context.Context) (int, error) {
	return r.batch.ExpireOldApprovals(ctx)
}

// Rollback compensates an executed decision and records the rollback outcome.
func (r *Runtime) Rollback(ctx context.Context, decisionID string) (*model.Result, error) {
	aDecision, err := r.decisions.Load(ctx, decisionID)
	if err != nil {
		return nil, err
	}
	if aDecision == nil {
		return nil, fmt.Errorf("decision %v not found", decisionID)
	}
	if aDecision.Status != model.StatusExecuted {
		return nil, fmt.Errorf("decision %v is %v, only executed decisions can be rolled back", decisionID, aDecision.Status)
	}
	result := r.executor.Rollback(ctx, aDecision, aDecision.ExecutionResult)
	if result.Success {
		wasApproved := aDecision.ApprovalLevel == model.ManagerApproval ||
			aDecision.ApprovalLevel == model.ExecutiveApproval
		r.policies.RecordOutcome(ctx, &model.Outcome{
			DecisionID:       aDecision.ID,
			TenantID:         aDecision.TenantID,
			Type:             aDecision.Type,
			RiskScore:        aDecision.RiskScore,
			ApprovalLevel:    aDecision.ApprovalLevel,
			Status:           aDecision.Status,
			WasApproved:      wasApproved,
			WasRolledBack:    true,
			ExecutionSuccess: aDecision.ExecutionResult != nil && aDecision.ExecutionResult.Success,
			CreatedAt:        clock.NowUTC(),
		})
	}
	return result, nil
}

// SetPolicy upserts a tenant risk policy.
func (r *Runtime) SetPolicy(ctx context.Context, p *model.RiskPolicy) (*model.RiskPolicy, error) {
	return r.policies.SetPolicy(ctx, p)
}

// Policy returns the stored policy for (tenant, type), or nil.
func (r *Runtime) Policy(ctx context.Context, tenantID string, t model.DecisionType) (*model.RiskPolicy, error) {
	return r.policies.Policy(ctx, tenantID, t)
}

// EffectiveEntry returns the policy-merged matrix entry the scorer uses.
func (r *Runtime) EffectiveEntry(ctx context.Context, tenantID string, t model.DecisionType) (risk.Entry, error) {
	return r.policies.EffectiveEntry(ctx, tenantID, t)
}

// MatrixDiff renders the default-vs-effective matrix diff for admin review.
func (r *Runtime) MatrixDiff(ctx context.Context, tenantID string, t model.DecisionType) (string, error) {
	return r.policies.MatrixDiff(ctx, tenantID, t)
}

// CalibrationMetrics aggregates the recent outcome history for a tenant.
func (r *Runtime) CalibrationMetrics(ctx context.Context, tenantID string, t model.DecisionType) (*policy.CalibrationMetrics, error) {
	return r.policies.Calibration(ctx, tenantID, t)
}

// RecordOutcome appends an outcome observed outside the batch path, e.g. a
// post-hoc impact assessment.
func (r *Runtime) RecordOutcome(ctx context.Context, o *model.Outcome) {
	r.policies.RecordOutcome(ctx, o)
}

// DroppedEvents reports how many lifecycle events could not be published.
func (r *Runtime) DroppedEvents() int64 {
	return r.publisher.Dropped()
}

// SwallowedOutcomes reports how many outcome records the history store
// rejected.
func (r *Runtime) SwallowedOutcomes() int64 {
	return r.policies.SwallowedOutcomes()
}
