package products

import (
	"modfy_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchAllProducts handles GET /products. Public callers only ever see active products.
func (p *ProductRoutesManager) FetchAllProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := handling.ParseProductFilter(r)
	if err != nil {
		handling.InvalidBody(err, p.logger, w)
		return
	}

	products, err := p.catalogService.ListProducts(r.Context(), filter, true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", p.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(products), gecho.Send())
}

// FetchProduct handles GET /products/{id}; id may be a uuid or a slug.
func (p *ProductRoutesManager) FetchProduct(w http.ResponseWriter, r *http.Request) {
	product, err := p.catalogService.GetProduct(r.Context(), chi.URLParam(r, "id"), true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch product", p.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(product), gecho.Send())
}
