package pharmacy

import "errors"

var (
	// ErrBadCredentials is returned on login with an unknown username or
	// a wrong password; the two cases are indistinguishable to callers.
	ErrBadCredentials = errors.New("invalid credentials")

	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidCard     = errors.New("invalid card details")
	ErrInvalidRole     = errors.New("role must be CUSTOMER or ADMIN")
)
