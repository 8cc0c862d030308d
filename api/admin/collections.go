package admin

import (
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := ar.catalogService.ListCollections(r.Context(), false)
	if err != nil {
		handling.HandleError(err, "Failed to fetch collections", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(collections), gecho.Send())
}

func (ar *AdminRoutesManager) CreateCollection(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CollectionRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	collection, err := ar.catalogService.CreateCollection(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create collection. Please try again", ar.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("Collection created successfully"), gecho.WithData(collection), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCollectionRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	collection, err := ar.catalogService.UpdateCollection(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update collection. Please try again", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Collection updated successfully"), gecho.WithData(collection), gecho.Send())
}

// SetCollectionProducts replaces the collection's product list.
func (ar *AdminRoutesManager) SetCollectionProducts(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CollectionProductsRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	collection, err := ar.catalogService.SetCollectionProducts(r.Context(), id, body.ProductIDs)
	if err != nil {
		handling.HandleError(err, "Unable to update collection products. Please try again", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(collection), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	if err := ar.catalogService.DeleteCollection(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete collection. Please try again", ar.logger, w)
		return
	}
	handling.NoContent(w)
}
