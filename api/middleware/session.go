package middleware

import (
	"context"
	"errors"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const SessionContextKey contextKey = "session"

// LoadSession resolves the session cookie into the request context. Unknown or expired ids are
// dropped along with the cookie.
func (mw *Middleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := lib.GetCookieValue(lib.SessionCookieName, r)
		if err != nil || id == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := mw.sessionService.Get(r.Context(), id)
		if err != nil {
			if !errors.Is(err, lib.ErrNotFound) {
				mw.logger.Warn("Failed to load session", gecho.Field("error", err))
			}
			lib.ClearCookie(lib.SessionCookieName, w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

// EnsureSession starts an anonymous session for guests that have none yet.
func (mw *Middleware) EnsureSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetSession(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		session, err := mw.sessionService.Create(r.Context(), nil)
		if err != nil {
			gecho.InternalServerError(w, gecho.WithMessage("Failed to start session"), gecho.Send())
			return
		}
		WriteSessionCookie(w, session)

		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
	})
}

func WithSession(ctx context.Context, session *structs.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

// GetSession returns the request's session or nil.
func GetSession(ctx context.Context) *structs.Session {
	session, _ := ctx.Value(SessionContextKey).(*structs.Session)
	return session
}

func WriteSessionCookie(w http.ResponseWriter, session *structs.Session) {
	lib.SetCookie(lib.SessionCookieName, session.ID, session.ExpiresAt, w)
}
