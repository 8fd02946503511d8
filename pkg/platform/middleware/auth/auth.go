// Package auth authenticates API callers from identity provider access tokens.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/platform/httputil"
	"wardaudit/pkg/requestcontext"
)

// JWTValidator verifies an access token and returns its claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is the subset of token claims the API acts on.
type JWTClaims struct {
	UserID string
	Name   string
	Role   string
}

// RequireAuth admits requests carrying a valid bearer token and records the
// caller on the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor, reason := authenticate(validator, r.Header.Get("Authorization"))
			if reason != "" {
				logger.WarnContext(ctx, "request not authenticated",
					"reason", reason,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid bearer token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, actor)))
		})
	}
}

// authenticate returns the actor, or a non-empty reason for the log.
func authenticate(validator JWTValidator, header string) (requestcontext.ActorInfo, string) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return requestcontext.ActorInfo{}, "missing bearer token"
	}
	claims, err := validator.ValidateToken(strings.TrimSpace(token))
	if err != nil {
		return requestcontext.ActorInfo{}, "invalid token: " + err.Error()
	}
	actor := requestcontext.ActorInfo{ID: claims.UserID, Name: claims.Name, Role: claims.Role}
	if !actor.Authenticated() {
		return requestcontext.ActorInfo{}, "token has no subject"
	}
	return actor, ""
}
