package admin

import (
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ListCategories includes inactive categories.
func (ar *AdminRoutesManager) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := ar.catalogService.ListCategories(r.Context(), false)
	if err != nil {
		handling.HandleError(err, "Failed to fetch categories", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(categories), gecho.Send())
}

func (ar *AdminRoutesManager) CreateCategory(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CategoryRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	category, err := ar.catalogService.CreateCategory(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create category. Please try again", ar.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("Category created successfully"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCategoryRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	category, err := ar.catalogService.UpdateCategory(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update category. Please try again", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Category updated successfully"), gecho.WithData(category), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	if err := ar.catalogService.DeleteCategory(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete category. Please try again", ar.logger, w)
		return
	}
	handling.NoContent(w)
}

func (ar *AdminRoutesManager) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ReorderRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	if err := ar.catalogService.ReorderCategories(r.Context(), body.IDs); err != nil {
		handling.HandleError(err, "Unable to reorder categories. Please try again", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Categories reordered"), gecho.Send())
}
