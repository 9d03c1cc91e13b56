package extension_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/arbiterhq/arbiter/extension"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/stretchr/testify/assert"
)

type stubInput struct {
	ID string `json:"id"`
}

type stubService struct {
	name    string
	handled []model.DecisionType
	exec    types.Executable
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Handlers() types.Signatures {
	var out types.Signatures
	for _, t := range s.handled {
		out = append(out, types.Signature{Type: t, Input: reflect.TypeOf(&stubInput{})})
	}
	return out
}

func (s *stubService) Handler(t model.DecisionType) (types.Executable, error) {
	for _, handled := range s.handled {
		if handled == t {
			return s.exec, nil
		}
	}
	return nil, types.NewHandlerNotFoundError(t)
}

func TestHandlers_ValidateReportsMissing(t *testing.T) {
	handlers := extension.NewHandlers()
	err := handlers.Validate()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "no handler registered")
	}

	all := &stubService{name: "all", handled: model.Types()}
	handlers.Register(all)
	assert.NoError(t, handlers.Validate())
}

func TestHandlers_LaterRegistrationWins(t *testing.T) {
	handlers := extension.NewHandlers()

	first := &stubService{name: "builtin", handled: []model.DecisionType{model.TypeCreateTask}}
	second := &stubService{name: "custom", handled: []model.DecisionType{model.TypeCreateTask}}
	handlers.Register(first)
	handlers.Register(second)

	owner := handlers.Lookup(model.TypeCreateTask)
	if assert.NotNil(t, owner) {
		assert.Equal(t, "custom", owner.Name())
	}
	assert.Nil(t, handlers.Lookup(model.TypeAssignLead))
}

func TestHandlers_RegisterExposesInputTypes(t *testing.T) {
	handlers := extension.NewHandlers()
	svc := &stubService{
		name:    "stub",
		handled: []model.DecisionType{model.TypeCreateTask},
		exec: func(ctx context.Context, decision *model.Decision, input interface{}) (*model.Result, error) {
			return &model.Result{Success: true}, nil
		},
	}
	handlers.Register(svc)

	// A declared input type is resolvable by name; metadata coercion reads
	// the registry rather than the signature alone.
	name := extension.TypeName(reflect.TypeOf(&stubInput{}))
	registered := handlers.Types().Lookup(name)
	if assert.NotNil(t, registered) {
		assert.Equal(t, reflect.TypeOf(stubInput{}), registered.Type)
	}

	exec, err := svc.Handler(model.TypeCreateTask)
	assert.NoError(t, err)
	result, err := exec(context.Background(), &model.Decision{}, nil)
	assert.NoError(t, err)
	assert.True(t, result.Success)
}
