package cart

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (crm *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	summary, err := crm.cartService.Get(r.Context(), middleware.CartOwner(middleware.GetSession(r.Context())))
	if err != nil {
		handling.HandleError(err, "Failed to fetch cart", crm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(summary), gecho.Send())
}

func (crm *CartRoutesManager) AddToCart(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AddToCartRequest](r)
	if err != nil {
		handling.InvalidBody(err, crm.logger, w)
		return
	}

	item, err := crm.cartService.Add(r.Context(), middleware.CartOwner(middleware.GetSession(r.Context())), body)
	if err != nil {
		handling.HandleError(err, "Failed to add to cart", crm.logger, w)
		return
	}
	gecho.Created(w, gecho.WithMessage("Added to cart"), gecho.WithData(item), gecho.Send())
}

// UpdateCartItem sets the quantity of a line; zero removes it.
func (crm *CartRoutesManager) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, crm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCartItemRequest](r)
	if err != nil {
		handling.InvalidBody(err, crm.logger, w)
		return
	}

	item, err := crm.cartService.UpdateQuantity(r.Context(), middleware.CartOwner(middleware.GetSession(r.Context())), id, *body.Quantity)
	if err != nil {
		handling.HandleError(err, "Failed to update cart", crm.logger, w)
		return
	}
	if item == nil {
		gecho.Success(w, gecho.WithMessage("Item removed from cart"), gecho.Send())
		return
	}
	gecho.Success(w, gecho.WithData(item), gecho.Send())
}

func (crm *CartRoutesManager) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, crm.logger, w)
		return
	}

	if err := crm.cartService.Remove(r.Context(), middleware.CartOwner(middleware.GetSession(r.Context())), id); err != nil {
		handling.HandleError(err, "Failed to remove cart item", crm.logger, w)
		return
	}
	handling.NoContent(w)
}

func (crm *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := crm.cartService.Clear(r.Context(), middleware.CartOwner(middleware.GetSession(r.Context()))); err != nil {
		handling.HandleError(err, "Failed to clear cart", crm.logger, w)
		return
	}
	handling.NoContent(w)
}
