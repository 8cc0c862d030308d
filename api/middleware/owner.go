package middleware

import (
	"modfy_server/storage"
	"modfy_server/structs"
)

// CartOwner addresses the user's cart when logged in, the guest session's cart otherwise.
func CartOwner(session *structs.Session) storage.Owner {
	switch {
	case session.IsAuthenticated():
		return storage.UserOwner(*session.UserID)
	case session != nil:
		return storage.SessionOwner(session.ID)
	default:
		return storage.Owner{}
	}
}
