package account

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (arm *AccountRoutesManager) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	profile, err := arm.accountService.GetProfile(r.Context(), *session.UserID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch profile", arm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(profile), gecho.Send())
}

func (arm *AccountRoutesManager) SaveProfile(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProfileRequest](r)
	if err != nil {
		handling.InvalidBody(err, arm.logger, w)
		return
	}

	session := middleware.GetSession(r.Context())
	profile, err := arm.accountService.SaveProfile(r.Context(), *session.UserID, body)
	if err != nil {
		handling.HandleError(err, "Failed to save profile", arm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Profile saved"), gecho.WithData(profile), gecho.Send())
}
