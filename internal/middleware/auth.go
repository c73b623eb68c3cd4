// Package middleware provides reusable HTTP middleware for the media proxy.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gennyproject/media-proxy/internal/response"
	"github.com/gennyproject/media-proxy/internal/token"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// userIDKey is the context key for the authenticated caller's UUID.
const userIDKey contextKey = "userID"

// BearerToken extracts the token from a standard Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// RequireRole returns middleware that gates a route on the bearer token
// carrying one of the given roles. The check is purely a gate: it performs no
// storage work and rejects with 401 before the handler runs. When the token
// carries a UUID subject, the caller identity is injected into the request
// context for handlers that scope a private namespace.
func RequireRole(verifier token.Verifier, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			allowed, err := verifier.Authorize(r.Context(), raw, roles)
			if err != nil {
				log.Error().Err(err).Msg("token verification failed")
				response.BadGateway(w, "identity provider unavailable")
				return
			}
			if !allowed {
				response.Unauthorized(w, "token lacks required role")
				return
			}

			ctx := r.Context()
			if id, err := verifier.UserID(raw); err == nil {
				ctx = context.WithValue(ctx, userIDKey, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID returns the authenticated caller's UUID from the request context.
// ok is false when no identity was derived, which for private-namespace
// operations means the request must be rejected as unauthorized.
func CallerID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
