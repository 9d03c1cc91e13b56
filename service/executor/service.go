package executor

import (
	"context"
	"fmt"
	"reflect"

	"github.com/arbiterhq/arbiter/extension"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/arbiterhq/arbiter/service/audit"
	"github.com/viant/structology/conv"
)

// Listener is invoked once a decision handler completes, regardless of whether
// the result reports success. Implementations can log, collect metrics or
// perform any other side-effects they require.
type Listener func(decision *model.Decision, input interface{}, result *model.Result)

// Option customises the executor instance.
type Option func(*service)

// WithListener sets the listener invoked after every executed decision.
func WithListener(l Listener) Option {
	return func(s *service) {
		s.listener = l
	}
}

// WithAudit sets the audit sink the executor writes to.
func WithAudit(sink audit.Service) Option {
	return func(s *service) {
		s.audit = sink
	}
}

// Service dispatches decisions to their registered handlers. Execute and
// Rollback never return an error: validation failures, missing handlers and
// handler faults all surface as an unsuccessful *model.Result so that one bad
// decision cannot abort a batch.
type Service interface {
	Execute(ctx context.Context, decision *model.Decision) *model.Result
	Rollback(ctx context.Context, decision *model.Decision, previous *model.Result) *model.Result
}

type service struct {
	handlers  *extension.Handlers
	converter *conv.Converter
	audit     audit.Service
	listener  Listener
}

var _ Service = (*service)(nil)

// Execute runs the handler registered for the decision's type.
func (s *service) Execute(ctx context.Context, decision *model.Decision) *model.Result {
	result, input := s.execute(ctx, decision)
	s.logAudit(ctx, decision, "execute", result)
	if s.listener != nil {
		s.listener(decision, input, result)
	}
	return result
}

func (s *service) execute(ctx context.Context, decision *model.Decision) (*model.Result, interface{}) {
	handlerService := s.handlers.Lookup(decision.Type)
	if handlerService == nil {
		return failure(fmt.Sprintf("Unknown decision type: %v", decision.Type)), nil
	}
	handler, err := handlerService.Handler(decision.Type)
	if err != nil {
		return failure(err.Error()), nil
	}
	signature := handlerService.Handlers().Lookup(decision.Type)
	input, err := s.typedInput(signature, decision.Metadata)
	if err != nil {
		return failure(fmt.Sprintf("invalid metadata for %v: %v", decision.Type, err)), nil
	}
	result, err := handler(ctx, decision, input)
	if err != nil {
		return failure(err.Error()), input
	}
	if result == nil {
		result = failure(fmt.Sprintf("handler for %v returned no result", decision.Type))
	}
	return result, input
}

// Rollback compensates a previously executed decision. Types without a
// registered reverser get an explicit unsupported result.
func (s *service) Rollback(ctx context.Context, decision *model.Decision, previous *model.Result) *model.Result {
	result := s.rollback(ctx, decision, previous)
	s.logAudit(ctx, decision, "rollback", result)
	return result
}

func (s *service) rollback(ctx context.Context, decision *model.Decision, previous *model.Result) *model.Result {
	handlerService := s.handlers.Lookup(decision.Type)
	if handlerService == nil {
		return failure(fmt.Sprintf("Unknown decision type: %v", decision.Type))
	}
	reversible, ok := handlerService.(types.Reverser)
	if !ok {
		return failure(fmt.Sprintf("rollback not supported for %v", decision.Type))
	}
	reverser, ok := reversible.Reverser(decision.Type)
	if !ok {
		return failure(fmt.Sprintf("rollback not supported for %v", decision.Type))
	}
	var input interface{} = decision.Metadata
	if previous != nil && previous.Data != nil {
		input = previous.Data
	}
	result, err := reverser(ctx, decision, input)
	if err != nil {
		return failure(err.Error())
	}
	if result == nil {
		result = failure(fmt.Sprintf("reverser for %v returned no result", decision.Type))
	}
	return result
}

// typedInput coerces the free-form decision metadata into the handler's
// declared input type.  The type registry is consulted first so that a type
// registered under the same name, e.g. an extension replacing a built-in
// input, governs coercion.
func (s *service) typedInput(signature *types.Signature, metadata map[string]interface{}) (interface{}, error) {
	if signature == nil || signature.Input == nil {
		return metadata, nil
	}
	inputType := signature.Input
	if registered := s.handlers.Types().Lookup(extension.TypeName(inputType)); registered != nil {
		inputType = registered.Type
	}
	instance := newInstancePtr(inputType)
	if metadata == nil {
		return instance, nil
	}
	if err := s.converter.Convert(metadata, instance); err != nil {
		return nil, err
	}
	return instance, nil
}

func (s *service) logAudit(ctx context.Context, decision *model.Decision, action string, result *model.Result) {
	if s.audit == nil {
		return
	}
	message := fmt.Sprintf("%v %v: %v", action, decision.Type, result.Message)
	_ = s.audit.Log(ctx, &audit.Entry{
		TenantID:   decision.TenantID,
		Actor:      decision.RequestedBy,
		Type:       decision.Type,
		DecisionID: decision.ID,
		Message:    message,
		Metadata: map[string]interface{}{
			"success": result.Success,
			"action":  action,
		},
	})
}

func failure(message string) *model.Result {
	return &model.Result{Success: false, Message: message, Error: message}
}

// newInstancePtr creates a new instance pointer of the given type.
func newInstancePtr(t reflect.Type) interface{} {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

// New creates a new executor service instance.
func New(handlers *extension.Handlers, opts ...Option) Service {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	options.AccessUnexported = true

	s := &service{
		handlers:  handlers,
		converter: conv.NewConverter(options),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
