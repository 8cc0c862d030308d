package products

import (
	"modfy_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

func (p *ProductRoutesManager) FetchCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := p.catalogService.ListCollections(r.Context(), true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch collections", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(collections), gecho.Send())
}

func (p *ProductRoutesManager) FetchCollectionBySlug(w http.ResponseWriter, r *http.Request) {
	collection, err := p.catalogService.GetCollectionBySlug(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch collection", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(collection), gecho.Send())
}

func (p *ProductRoutesManager) FetchSizeCharts(w http.ResponseWriter, r *http.Request) {
	charts, err := p.catalogService.ListSizeCharts(r.Context(), true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch size charts", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(charts), gecho.Send())
}

func (p *ProductRoutesManager) FetchSizeChart(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, p.logger, w)
		return
	}

	chart, err := p.catalogService.GetSizeChart(r.Context(), id, true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch size chart", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(chart), gecho.Send())
}
