// Package tx defines the transactional boundary used by application services.
package tx

import "context"

// Runner executes fn inside a single unit of work. Repositories that take part
// in the unit of work resolve their handle from the context passed to fn.
type Runner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Noop runs fn directly. Used with in-memory adapters that have no rollback.
type Noop struct{}

func (Noop) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
