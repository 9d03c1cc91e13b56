package types

import (
	"context"
	"reflect"

	"github.com/arbiterhq/arbiter/model"
)

// Executable performs the domain mutation for one decision.  The input value
// is the decision's metadata coerced into the handler's declared input type.
// Validation failures are returned as an unsuccessful *model.Result, never as
// an error; the error return is reserved for infrastructure faults, which the
// executor wraps into a result before they reach any caller.
type Executable func(ctx context.Context, decision *model.Decision, input interface{}) (*model.Result, error)

// Signature describes one decision type a handler service supports together
// with the typed metadata it consumes.
type Signature struct {
	Type  model.DecisionType
	Input reflect.Type
}

type Signatures []Signature

// Lookup returns the signature registered for t, or nil.
func (s Signatures) Lookup(t model.DecisionType) *Signature {
	for i := range s {
		sig := &s[i]
		if sig.Type == t {
			return sig
		}
	}
	return nil
}

// Service is a group of decision handlers sharing a domain (invoicing, CRM,
// tasks).  Services register with the extension registry, which maps each
// signature's decision type back to the owning service.
type Service interface {
	Name() string
	Handlers() Signatures
	Handler(t model.DecisionType) (Executable, error)
}

// Reverser is optionally implemented by services that can compensate a
// previously executed decision.  Types without a reverser get an explicit
// "rollback not supported" result instead of a silent success.
type Reverser interface {
	Reverser(t model.DecisionType) (Executable, bool)
}
