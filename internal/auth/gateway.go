package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"drugstore/internal/token"
)

// Gateway is the per-request identity middleware. It never rejects a
// request itself: a missing, malformed, expired or tampered bearer token
// leaves the request anonymous and downstream policy checks convert
// "no principal" into a rejection.
type Gateway struct {
	codec  *token.Codec
	logger *zap.Logger
}

func NewGateway(codec *token.Codec, logger *zap.Logger) *Gateway {
	return &Gateway{codec: codec, logger: logger}
}

// Middleware extracts and verifies the Authorization bearer token and, on
// success, attaches the principal to the request context.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			next.ServeHTTP(w, r)
			return
		}
		tokenString := strings.TrimSpace(header[len("Bearer "):])

		claims, err := g.codec.Verify(tokenString)
		if err != nil {
			// Rejected tokens pass through anonymous. An error here is a
			// normal client condition (expiry, tampering), not a fault.
			g.logger.Debug("bearer token rejected", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		p := Principal{UserID: claims.UserID, Username: claims.Subject, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
	})
}
