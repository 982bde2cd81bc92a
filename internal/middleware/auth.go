package middleware

import (
	"errors"
	"net/http"

	"github.com/gmgoals/goals/internal/ctxkeys"
	"github.com/gmgoals/goals/internal/service"
)

// AuthMiddleware checks for a session token and adds the session to context if valid.
// A rejected token clears the cookie and records why, for RequireAuth.
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := service.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.VerifyToken(token)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r.WithContext(ctxkeys.WithAuthError(r.Context(), err)))
				return
			}

			next.ServeHTTP(w, r.WithContext(ctxkeys.WithSession(r.Context(), session)))
		})
	}
}

// RequireAuth rejects requests without a valid session with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Session(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		if errors.Is(ctxkeys.AuthError(r.Context()), service.ErrInvalidToken) {
			writeDetail(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
	}
}

// RequireCronSecret guards scheduled-job endpoints with the cron bearer secret.
func RequireCronSecret(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			err := authService.VerifyCronSecret(r)
			if err != nil {
				writeDetail(w, http.StatusForbidden, "Invalid cron secret")
				return
			}
			next(w, r)
		}
	}
}
