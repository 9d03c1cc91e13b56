package types

import (
	"fmt"

	"github.com/arbiterhq/arbiter/model"
)

func NewHandlerNotFoundError(t model.DecisionType) error {
	return fmt.Errorf("handler for decision type %v not found", t)
}

func NewInvalidInputError(in interface{}) error {
	return fmt.Errorf("invalid input %T", in)
}
