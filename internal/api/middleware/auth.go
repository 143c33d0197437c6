package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/event-report-manager/backend/internal/auth"
)

type contextKey int

const claimsKey contextKey = iota

// RequireAuth wraps a handler with bearer-token verification. The verified
// claims are stored on the request context for ClaimsFrom.
func RequireAuth(mgr *auth.JWTManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Missing bearer token")
			return
		}

		claims, err := mgr.VerifyToken(token)
		if err != nil {
			WriteError(w, http.StatusUnauthorized, ErrUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// ClaimsFrom returns the verified claims stored by RequireAuth.
func ClaimsFrom(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(claimsKey).(*auth.Claims)
	return claims, ok
}
