package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/atendo/backend/internal/auth"
	"github.com/atendo/backend/internal/http/respond"
	"github.com/atendo/backend/internal/observability"
)

// RequireAuth gates every protected route. It extracts the bearer token,
// verifies it, and attaches the resolved principal to the request context.
// Rejected requests never reach the wrapped handler. Verification failures
// share one generic response regardless of cause.
func RequireAuth(tokens *auth.TokenManager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			observability.AuthRejections.WithLabelValues("missing_token").Inc()
			respond.Error(w, http.StatusUnauthorized, respond.CodeUnauthenticated, "access token required")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			observability.AuthRejections.WithLabelValues("invalid_token").Inc()
			slog.Warn("token verification failed", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			respond.Error(w, http.StatusUnauthorized, respond.CodeInvalidToken, "invalid or expired token")
			return
		}

		principal := auth.Principal{
			IdentityID: claims.Subject,
			Email:      claims.Email,
			TenantID:   claims.TenantID,
		}
		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
