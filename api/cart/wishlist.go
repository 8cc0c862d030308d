package cart

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (crm *CartRoutesManager) GetWishlist(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	items, err := crm.wishlistService.List(r.Context(), *session.UserID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch wishlist", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(items), gecho.Send())
}

// AddToWishlist answers 201 for a new entry and 200 when the product was already saved.
func (crm *CartRoutesManager) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.WishlistRequest](r)
	if err != nil {
		handling.InvalidBody(err, crm.logger, w)
		return
	}

	session := middleware.GetSession(r.Context())
	item, created, err := crm.wishlistService.Add(r.Context(), *session.UserID, body.ProductID)
	if err != nil {
		handling.HandleError(err, "Failed to add to wishlist", crm.logger, w)
		return
	}

	if !created {
		gecho.Success(w, gecho.WithMessage("Already in wishlist"), gecho.WithData(item), gecho.Send())
		return
	}
	gecho.Created(w, gecho.WithMessage("Added to wishlist"), gecho.WithData(item), gecho.Send())
}

func (crm *CartRoutesManager) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.URLParamUUID(r, "productId")
	if err != nil {
		handling.InvalidBody(err, crm.logger, w)
		return
	}

	session := middleware.GetSession(r.Context())
	if err := crm.wishlistService.Remove(r.Context(), *session.UserID, productID); err != nil {
		handling.HandleError(err, "Failed to remove from wishlist", crm.logger, w)
		return
	}
	handling.NoContent(w)
}
