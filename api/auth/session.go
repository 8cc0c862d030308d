package auth

import (
	"modfy_server/api/middleware"
	"modfy_server/structs/tables"
	"net/http"
)

// startUserSession rotates the session id onto user and hands the guest's cart over.
func (arm *AuthRoutesManager) startUserSession(w http.ResponseWriter, r *http.Request, user *tables.User) error {
	old := middleware.GetSession(r.Context())

	session, err := arm.sessionService.Rotate(r.Context(), old, user)
	if err != nil {
		return err
	}
	if old != nil && !old.IsAuthenticated() {
		arm.authService.MergeGuestCart(r.Context(), old.ID, user.ID)
	}

	middleware.WriteSessionCookie(w, session)
	return nil
}
