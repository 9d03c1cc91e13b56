package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/approval"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/decision"
	"github.com/arbiterhq/arbiter/service/event"
	"github.com/arbiterhq/arbiter/service/executor"
	"github.com/arbiterhq/arbiter/service/policy"
	"github.com/arbiterhq/arbiter/tracing"
)

// Report summarises one batch run.  Processed counts every decision the run
// claimed; Succeeded and Failed partition it.
type Report struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Service drains approved decisions through the executor with bounded
// concurrency.  Admission is oldest-first; completion order within a batch is
// unspecified.  A claim on the decision record provides mutual exclusion, so
// overlapping runs never execute the same decision twice.
type Service struct {
	decisions decision.Service
	executor  executor.Service
	policies  *policy.Manager
	approvals approval.Service
	publisher *event.Publisher
	config    Config
}

// New creates a batch service.
func New(decisions decision.Service, exec executor.Service, policies *policy.Manager, approvals approval.Service, publisher *event.Publisher, config Config) *Service {
	config.Validate()
	return &Service{
		decisions: decisions,
		executor:  exec,
		policies:  policies,
		approvals: approvals,
		publisher: publisher,
		config:    config,
	}
}

// Process executes up to BatchSize approved decisions for a tenant (empty
// tenantID means all tenants).  One failing decision never aborts the run.
func (s *Service) Process(ctx context.Context, tenantID string) (*Report, error) {
	ctx, span := tracing.StartSpan(ctx, "batch.Process", "INTERNAL")
	var err error
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"tenant.id": tenantID})

	executable, err := s.decisions.ListExecutable(ctx, tenantID, s.config.BatchSize)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)
	semaphore := make(chan struct{}, s.config.MaxConcurrency)

	for _, candidate := range executable {
		claimed, claimErr := s.decisions.Claim(ctx, candidate.ID, clock.NowUTC())
		if claimErr != nil {
			if errors.Is(claimErr, dao.ErrAlreadyClaimed) || errors.Is(claimErr, dao.ErrNotFound) {
				continue
			}
			err = claimErr
			break
		}

		wg.Add(1)
		semaphore <- struct{}{}
		go func(d *model.Decision) {
			defer wg.Done()
			defer func() { <-semaphore }()

			result := s.executeOne(ctx, d, true, true)

			mu.Lock()
			report.Processed++
			if result.Success {
				report.Succeeded++
			} else {
				report.Failed++
			}
			mu.Unlock()
		}(claimed)
	}
	wg.Wait()

	if err != nil {
		return &report, err
	}
	return &report, nil
}

// Execute claims and runs a single approved decision immediately, outside a
// batch run.  recordOutcome controls whether the terminal state lands in the
// calibration history; wasApproved marks outcomes that went through the
// approval flow, as opposed to inline audit-log executions.
func (s *Service) Execute(ctx context.Context, id string, recordOutcome, wasApproved bool) (*model.Result, error) {
	claimed, err := s.decisions.Claim(ctx, id, clock.NowUTC())
	if err != nil {
		return nil, err
	}
	return s.executeOne(ctx, claimed, recordOutcome, wasApproved), nil
}

// executeOne runs a claimed decision to its terminal status.
func (s *Service) executeOne(ctx context.Context, d *model.Decision, recordOutcome, wasApproved bool) *model.Result {
	execCtx := ctx
	if s.config.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, s.config.HandlerTimeout)
		defer cancel()
	}

	result := s.safeExecute(execCtx, d)

	target := model.StatusExecuted
	topic := event.TopicDecisionExecuted
	if !result.Success {
		target = model.StatusFailed
		topic = event.TopicDecisionFailed
	}
	if _, err := s.decisions.Transition(ctx, d.ID, model.StatusApproved, target, func(stored *model.Decision) {
		stored.ExecutionResult = result
	}); err != nil {
		result = &model.Result{Success: false, Message: "failed to persist execution result", Error: err.Error()}
	}

	if stored, _ := s.decisions.Load(ctx, d.ID); stored != nil {
		d = stored
	}
	s.publisher.Publish(ctx, topic, d)

	if recordOutcome && s.policies != nil {
		s.policies.RecordOutcome(ctx, &model.Outcome{
			DecisionID:       d.ID,
			TenantID:         d.TenantID,
			Type:             d.Type,
			RiskScore:        d.RiskScore,
			ApprovalLevel:    d.ApprovalLevel,
			Status:           d.Status,
			WasApproved:      wasApproved,
			ExecutionSuccess: result.Success,
			ExecutionError:   result.Error,
			CreatedAt:        clock.NowUTC(),
		})
	}
	return result
}

// safeExecute shields the run from a panicking handler.
func (s *Service) safeExecute(ctx context.Context, d *model.Decision) (result *model.Result) {
	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprintf("handler panic: %v", r)
			result = &model.Result{Success: false, Message: message, Error: message}
		}
	}()
	return s.executor.Execute(ctx, d)
}

// ExpireOldApprovals rejects every pending decision whose approval window has
// passed and returns how many were rejected.
func (s *Service) ExpireOldApprovals(ctx context.Context) (int, error) {
	if s.approvals == nil {
		return 0, nil
	}
	return s.approvals.Expire(ctx, clock.NowUTC())
}
