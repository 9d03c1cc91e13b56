package extension

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/viant/x"
)

// DataTypeIniter lets a handler service register additional data types when
// it joins the registry.
type DataTypeIniter interface {
	InitTypes(types *Types)
}

// Handlers is the type-keyed registry of decision handler services.
type Handlers struct {
	types    *Types
	services map[model.DecisionType]types.Service
	mux      sync.RWMutex
}

// Types returns the input type registry.
func (h *Handlers) Types() *Types {
	return h.types
}

// Lookup returns the service owning the given decision type, or nil.
func (h *Handlers) Lookup(t model.DecisionType) types.Service {
	h.mux.RLock()
	defer h.mux.RUnlock()
	return h.services[t]
}

// Register adds a handler service; every decision type the service declares
// in its signatures becomes dispatchable.  Later registrations win, which
// allows callers to replace a built-in handler with a custom one.
func (h *Handlers) Register(service types.Service) {
	h.mux.Lock()
	defer h.mux.Unlock()

	if typer, ok := service.(DataTypeIniter); ok {
		typer.InitTypes(h.types)
	}
	for _, sig := range service.Handlers() {
		h.services[sig.Type] = service
		if sig.Input != nil {
			input := sig.Input
			if input.Kind() == reflect.Ptr {
				input = input.Elem()
			}
			h.types.Register(x.NewType(input))
		}
	}
}

// Validate checks that every known decision type has a registered handler.
// The service constructor calls it so that a missing handler surfaces at
// wiring time rather than on first dispatch.
func (h *Handlers) Validate() error {
	h.mux.RLock()
	defer h.mux.RUnlock()
	for _, t := range model.Types() {
		if _, ok := h.services[t]; !ok {
			return fmt.Errorf("no handler registered for decision type %v", t)
		}
	}
	return nil
}

// NewHandlers creates a new handler registry.
func NewHandlers(goTypes ...*x.Type) *Handlers {
	ret := &Handlers{
		types:    NewTypes(),
		services: make(map[model.DecisionType]types.Service),
	}
	for _, t := range goTypes {
		if t != nil {
			ret.types.Register(t)
		}
	}
	return ret
}
