// Package identity carries the authenticated principal of a request through context.Context.
package identity

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when no principal is attached to the context.
var ErrUnauthenticated = errors.New("request is not authenticated")

// Role distinguishes customer tokens from admin console tokens.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal identifies the caller of a request.
type Principal struct {
	UserID int64
	Role   Role
}

type principalKey struct{}

// WithPrincipal returns a child context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// WithUserID attaches a customer principal.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return WithPrincipal(ctx, Principal{UserID: userID, Role: RoleUser})
}

// FromContext returns the principal attached to ctx, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	if !ok || p.UserID <= 0 {
		return Principal{}, false
	}
	return p, true
}

// UserID returns the current user id or ErrUnauthenticated.
func UserID(ctx context.Context) (int64, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return 0, ErrUnauthenticated
	}
	return p.UserID, nil
}
