package auth

import (
	"errors"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.LoginRequest](r)
	if err != nil {
		handling.InvalidBody(err, arm.logger, w)
		return
	}

	user, err := arm.authService.Authenticate(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, lib.ErrInvalidCredentials) {
			arm.logger.Warn("Login failed", gecho.Field("email", body.Email))
			gecho.Unauthorized(w, gecho.WithMessage("Invalid email or password"), gecho.Send())
			return
		}
		handling.HandleError(err, "Unable to complete login. Please try again", arm.logger, w)
		return
	}

	if err := arm.startUserSession(w, r, user); err != nil {
		handling.HandleError(err, "Unable to complete login. Please try again", arm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Login successful"),
		gecho.WithData(user),
		gecho.Send(),
	)
}
