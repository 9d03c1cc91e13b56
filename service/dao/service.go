package dao

import (
	"context"
)

// Service is the generic persistence contract every engine store implements.
// K is the comparable key type (decision id, policy composite key, …) and T
// the stored entity.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
