package contact

import (
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (crm *ContactRoutesManager) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ContactRequest](r)
	if err != nil {
		handling.InvalidBody(err, crm.logger, w)
		return
	}

	msg, err := crm.contactService.Submit(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Failed to send message", crm.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("Message sent successfully"), gecho.WithData(msg), gecho.Send())
}

func (crm *ContactRoutesManager) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := crm.contactService.Settings(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch contact settings", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(settings), gecho.Send())
}
