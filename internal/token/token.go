// Package token signs and verifies the bearer tokens that carry a user's
// identity between requests. The codec is the only component able to
// produce a token the identity middleware will trust.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"drugstore/domain"
)

// ErrInvalidToken covers every verification failure: bad signature,
// unexpected signing method, malformed input, or expiry. Verification
// fails closed; callers never learn which check tripped.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the signed claim-set embedded in every issued token.
type Claims struct {
	UserID int64       `json:"id"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256 tokens with a process-wide symmetric
// secret and a fixed validity window, both injected at construction.
type Codec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewCodec constructs a Codec. now is the clock used for issued-at and
// expiry; pass nil for time.Now.
func NewCodec(secret string, validity time.Duration, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: []byte(secret), validity: validity, now: now}
}

// Issue signs a token for the user: subject=username plus id and role
// claims, valid from now until now+validity.
func (c *Codec) Issue(userID int64, username string, role domain.Role) (string, error) {
	now := c.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a token string. Any failure, including
// normal expiry, yields ErrInvalidToken; structurally unparseable input
// is treated identically to a bad signature.
func (c *Codec) Verify(tokenString string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" || !domain.ValidRole(claims.Role) {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
