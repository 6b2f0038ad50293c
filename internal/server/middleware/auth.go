// Package middleware provides the HTTP middleware for the API server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"truedial/internal/security"
	"truedial/internal/server/httpx"
	sessiondomain "truedial/internal/session/domain"
)

// SessionChecker looks up sessions for revocation checks.
type SessionChecker interface {
	GetByID(ctx context.Context, id string) (*sessiondomain.Session, error)
}

// Auth validates the Bearer access token and checks that its session is still
// live, then stashes the user and session ids in the request context.
func Auth(tokens *security.TokenProvider, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				httpx.Error(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			sessionID, userID, err := tokens.ValidateAccess(tokenString)
			if err != nil {
				httpx.Error(w, http.StatusUnauthorized, "invalid token")
				return
			}
			sess, err := sessions.GetByID(r.Context(), sessionID)
			if err != nil {
				httpx.Error(w, http.StatusInternalServerError, "internal error")
				return
			}
			if sess == nil || sess.Revoked() || sess.UserID != userID {
				httpx.Error(w, http.StatusUnauthorized, "session revoked")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), userID, sessionID)))
		})
	}
}
