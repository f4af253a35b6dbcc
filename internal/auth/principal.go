package auth

import (
	"context"

	"drugstore/domain"
)

// Principal is the authenticated identity attached to a request after a
// bearer token verifies. A request with no principal is anonymous.
type Principal struct {
	UserID   int64
	Username string
	Role     domain.Role
}

type ctxKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext extracts the request principal, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
