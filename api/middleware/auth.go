package middleware

import (
	"net/http"

	"github.com/MonkyMars/gecho"
)

// RequireUser protects routes to only logged-in users
func (mw *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).IsAuthenticated() {
			gecho.Unauthorized(w, gecho.WithMessage("Not authenticated"), gecho.Send())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin protects routes to only admin users
func (mw *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r.Context())
		if !session.IsAuthenticated() {
			gecho.Unauthorized(w, gecho.WithMessage("Not authenticated"), gecho.Send())
			return
		}

		if !session.IsAdmin() {
			mw.logger.Warn("Non-admin user attempted to access admin route",
				gecho.Field("user_id", session.UserID),
				gecho.Field("path", r.URL.Path))
			gecho.Forbidden(w, gecho.WithMessage("Admin access required"), gecho.Send())
			return
		}

		next.ServeHTTP(w, r)
	})
}
