package auth

import (
	"errors"

	"drugstore/domain"
)

var (
	// ErrUnauthenticated means no principal is attached to the request.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the principal's role is not in the operation's
	// required role set.
	ErrForbidden = errors.New("insufficient permissions")
)

// Authorize checks a principal against an operation's required roles.
// An empty role set permits any authenticated principal; that is a
// deliberate declaration at the call site, not a default.
func Authorize(p *Principal, required ...domain.Role) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if len(required) == 0 {
		return nil
	}
	for _, role := range required {
		if p.Role == role {
			return nil
		}
	}
	return ErrForbidden
}
