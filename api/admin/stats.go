package admin

import (
	"modfy_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ar.statsService.Dashboard(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to load dashboard stats", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(stats), gecho.Send())
}
