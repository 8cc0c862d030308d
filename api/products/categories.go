package products

import (
	"modfy_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchCategories returns the active categories, grouped when ?tree=true.
func (p *ProductRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	if handling.QueryBool(r, "tree") {
		tree, err := p.catalogService.CategoryTree(r.Context(), true)
		if err != nil {
			handling.HandleError(err, "Failed to fetch categories", p.logger, w)
			return
		}
		gecho.Success(w, gecho.WithData(tree), gecho.Send())
		return
	}

	categories, err := p.catalogService.ListCategories(r.Context(), true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch categories", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (p *ProductRoutesManager) FetchCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := p.catalogService.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"), true)
	if err != nil {
		handling.HandleError(err, "Failed to fetch category", p.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(category), gecho.Send())
}
