package admin

import (
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := ar.contactService.ListMessages(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch contact messages", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(messages), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateContactMessage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ContactStatusRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	msg, err := ar.contactService.UpdateStatus(r.Context(), id, tables.ContactStatus(body.Status))
	if err != nil {
		handling.HandleError(err, "Unable to update contact message", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(msg), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	if err := ar.contactService.DeleteMessage(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete contact message", ar.logger, w)
		return
	}
	handling.NoContent(w)
}

func (ar *AdminRoutesManager) GetContactSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := ar.contactService.Settings(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch contact settings", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(settings), gecho.Send())
}

func (ar *AdminRoutesManager) SaveContactSettings(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ContactSettingsRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	settings, err := ar.contactService.SaveSettings(r.Context(), body.Settings)
	if err != nil {
		handling.HandleError(err, "Unable to save contact settings", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Contact settings saved"), gecho.WithData(settings), gecho.Send())
}
