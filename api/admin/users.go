package admin

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := ar.accountService.ListUsers(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch users", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(users), gecho.Send())
}

func (ar *AdminRoutesManager) CreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateUserRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	user, err := ar.accountService.CreateUser(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create user", ar.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("User created successfully"), gecho.WithData(user), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateUserRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	user, err := ar.accountService.UpdateUser(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update user", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("User updated successfully"), gecho.WithData(user), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	actor := middleware.GetSession(r.Context())
	if err := ar.accountService.DeleteUser(r.Context(), *actor.UserID, id); err != nil {
		handling.HandleError(err, "Unable to delete user", ar.logger, w)
		return
	}
	handling.NoContent(w)
}
