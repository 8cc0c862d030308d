package handling

import "net/http"

// NoContent answers 204 without a body; gecho's responders always write one.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
