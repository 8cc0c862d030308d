package auth

import (
	"errors"
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleUser returns the logged-in account, read fresh from storage.
func (arm *AuthRoutesManager) HandleUser(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	if !session.IsAuthenticated() {
		gecho.Unauthorized(w, gecho.WithMessage("Not authenticated"), gecho.Send())
		return
	}

	user, err := arm.authService.GetUser(r.Context(), *session.UserID)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			gecho.Unauthorized(w, gecho.WithMessage("Not authenticated"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to load user", arm.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(user), gecho.Send())
}
