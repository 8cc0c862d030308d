package auth

import (
	"errors"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AuthRoutesManager) HandleSignup(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SignupRequest](r)
	if err != nil {
		handling.InvalidBody(err, arm.logger, w)
		return
	}

	user, err := arm.authService.Register(r.Context(), body)
	if err != nil {
		if errors.Is(err, lib.ErrConflict) {
			gecho.Conflict(w, gecho.WithMessage("An account with this email already exists"), gecho.Send())
			return
		}
		handling.HandleError(err, "Failed to create account", arm.logger, w)
		return
	}

	if err := arm.startUserSession(w, r, user); err != nil {
		handling.HandleError(err, "Failed to start session", arm.logger, w)
		return
	}

	gecho.Created(w, gecho.WithMessage("Account created successfully"), gecho.WithData(user), gecho.Send())
}
