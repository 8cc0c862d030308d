package admin

import (
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListSizeCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := ar.catalogService.ListSizeCharts(r.Context(), false)
	if err != nil {
		handling.HandleError(err, "Failed to fetch size charts", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(charts), gecho.Send())
}

func (ar *AdminRoutesManager) CreateSizeChart(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SizeChartRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	chart, err := ar.catalogService.CreateSizeChart(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create size chart. Please try again", ar.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("Size chart created successfully"), gecho.WithData(chart), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateSizeChart(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateSizeChartRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	chart, err := ar.catalogService.UpdateSizeChart(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update size chart. Please try again", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Size chart updated successfully"), gecho.WithData(chart), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteSizeChart(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	if err := ar.catalogService.DeleteSizeChart(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete size chart. Please try again", ar.logger, w)
		return
	}
	handling.NoContent(w)
}
