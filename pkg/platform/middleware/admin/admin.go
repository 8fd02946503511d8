// Package admin guards operational routes behind a shared token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "wardaudit/pkg/domain-errors"
	"wardaudit/pkg/platform/httputil"
	"wardaudit/pkg/requestcontext"
)

// HeaderName carries the operator token.
const HeaderName = "X-Admin-Token"

// RequireAdminToken rejects requests whose token does not match want. An empty
// want locks the routes entirely.
func RequireAdminToken(want string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tokenMatches(r.Header.Get(HeaderName), want) {
				logger.WarnContext(r.Context(), "admin token rejected",
					"request_id", requestcontext.RequestID(r.Context()),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "admin token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenMatches(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
