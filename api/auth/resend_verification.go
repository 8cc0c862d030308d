package auth

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleResendVerification emails a new link to the logged-in user.
func (arm *AuthRoutesManager) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	user, err := arm.authService.GetUser(r.Context(), *session.UserID)
	if err != nil {
		handling.HandleError(err, "Failed to load user", arm.logger, w)
		return
	}

	if user.IsEmailVerified {
		gecho.Success(w, gecho.WithMessage("Email already verified"), gecho.Send())
		return
	}

	arm.authService.SendVerification(user)
	arm.logger.Info("Verification email queued", gecho.Field("user_id", user.ID))
	gecho.Success(w, gecho.WithMessage("Verification email sent"), gecho.Send())
}
