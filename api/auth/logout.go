package auth

import (
	"modfy_server/api/middleware"
	"modfy_server/lib"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		if err := arm.sessionService.Destroy(r.Context(), session.ID); err != nil {
			arm.logger.Error("Failed to destroy session during logout", gecho.Field("error", err))
			gecho.InternalServerError(w, gecho.WithMessage("Failed to logout"), gecho.Send())
			return
		}
	}

	lib.ClearCookie(lib.SessionCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Logged out successfully"),
		gecho.Send(),
	)
}
