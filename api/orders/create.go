package orders

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// CreateOrder checks out the user's cart and returns the order with its WhatsApp link.
func (orm *OrderRoutesManager) CreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CheckoutRequest](r)
	if err != nil {
		handling.InvalidBody(err, orm.logger, w)
		return
	}

	result, err := orm.orderService.Checkout(r.Context(), middleware.GetSession(r.Context()), body)
	if err != nil {
		handling.HandleError(err, "Failed to place order", orm.logger, w)
		return
	}

	gecho.Created(w, gecho.WithMessage("Order placed successfully"), gecho.WithData(result), gecho.Send())
}
