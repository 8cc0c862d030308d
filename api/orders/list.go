package orders

import (
	"modfy_server/api/middleware"
	"modfy_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// GetMyOrders returns all orders for the authenticated user
func (orm *OrderRoutesManager) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	orders, err := orm.orderService.ListForUser(r.Context(), *session.UserID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch orders", orm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(orders), gecho.Send())
}

func (orm *OrderRoutesManager) GetMyOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, orm.logger, w)
		return
	}

	session := middleware.GetSession(r.Context())
	order, err := orm.orderService.GetForUser(r.Context(), *session.UserID, id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch order", orm.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(order), gecho.Send())
}
