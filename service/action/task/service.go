package task

import (
	"context"
	"reflect"
	"time"

	"github.com/arbiterhq/arbiter/internal/clock"
	"github.com/arbiterhq/arbiter/internal/idgen"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/arbiterhq/arbiter/service/dao/domain"
)

const name = "task"

// Service executes task management decisions.
type Service struct {
	stores *domain.Stores
}

var _ types.Service = (*Service)(nil)

// CreateTaskInput describes the task to create.  DueDate accepts RFC 3339.
type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// AssignTaskInput routes an existing task to a user.
type AssignTaskInput struct {
	TaskID string `json:"taskId"`
	UserID string `json:"userId"`
}

// New creates the task handler service.
func New(stores *domain.Stores) *Service {
	return &Service{stores: stores}
}

// Name returns the service name.
func (s *Service) Name() string {
	return name
}

// Handlers returns the decision types this service executes.
func (s *Service) Handlers() types.Signatures {
	return []types.Signature{
		{Type: model.TypeCreateTask, Input: reflect.TypeOf(&CreateTaskInput{})},
		{Type: model.TypeAssignTask, Input: reflect.TypeOf(&AssignTaskInput{})},
	}
}

// Handler returns the executable for the given decision type.
func (s *Service) Handler(t model.DecisionType) (types.Executable, error) {
	switch t {
	case model.TypeCreateTask:
		return s.createTask, nil
	case model.TypeAssignTask:
		return s.assignTask, nil
	default:
		return nil, types.NewHandlerNotFoundError(t)
	}
}

func (s *Service) createTask(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*CreateTaskInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.Title == "" {
		return failure("Task title required"), nil
	}
	description := input.Description
	if description == "" {
		description = decision.Description
	}
	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	var dueDate *time.Time
	if input.DueDate != "" {
		parsed, err := time.Parse(time.RFC3339, input.DueDate)
		if err != nil {
			return failure("Invalid due date: " + input.DueDate), nil
		}
		dueDate = &parsed
	}

	record := &model.Task{
		ID:          idgen.New(),
		TenantID:    decision.TenantID,
		Title:       input.Title,
		Description: description,
		Status:      "pending",
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   clock.NowUTC(),
	}
	if err := s.stores.Tasks.Save(ctx, record); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Task created successfully",
		Data:    map[string]interface{}{"taskId": record.ID},
	}, nil
}

func (s *Service) assignTask(ctx context.Context, decision *model.Decision, in interface{}) (*model.Result, error) {
	input, ok := in.(*AssignTaskInput)
	if !ok {
		return nil, types.NewInvalidInputError(in)
	}
	if input.TaskID == "" || input.UserID == "" {
		return failure("Task ID and User ID required"), nil
	}
	record, err := s.stores.Tasks.Load(ctx, input.TaskID)
	if err != nil {
		return nil, err
	}
	if record == nil || record.TenantID != decision.TenantID {
		return failure("Task not found"), nil
	}
	record.AssignedToID = input.UserID
	if err := s.stores.Tasks.Save(ctx, record); err != nil {
		return nil, err
	}
	return &model.Result{
		Success: true,
		Message: "Task assigned successfully",
		Data: map[string]interface{}{
			"taskId": input.TaskID,
			"userId": input.UserID,
		},
	}, nil
}

func failure(message string) *model.Result {
	return &model.Result{Success: false, Message: message}
}
