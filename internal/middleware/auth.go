package middleware

import (
	"net/http"

	"github.com/notestack/notestack/internal/ctxkeys"
	"github.com/notestack/notestack/internal/service"
)

// RequireAdmin rejects requests without a valid admin session cookie.
// It is purely a capability gate in front of the moderation endpoints;
// the services behind it never look at who is calling.
func RequireAdmin(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("admin_session")
			if err != nil {
				http.Error(w, "admin login required", http.StatusUnauthorized)
				return
			}

			err = authService.VerifyJWT(cookie.Value)
			if err != nil {
				authService.ClearSessionCookie(w)
				http.Error(w, "admin login required", http.StatusUnauthorized)
				return
			}

			next(w, r.WithContext(ctxkeys.WithAdmin(r.Context())))
		}
	}
}
