package admin

import (
	"modfy_server/handling"
	"modfy_server/lib"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ListOrders returns every order, optionally narrowed with ?status=.
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	status := tables.OrderStatus(r.URL.Query().Get("status"))

	orders, err := ar.orderService.ListAll(r.Context(), status)
	if err != nil {
		handling.HandleError(err, "Failed to fetch orders", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(orders), gecho.Send())
}

func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	order, err := ar.orderService.Get(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Failed to fetch order", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithData(order), gecho.Send())
}

func (ar *AdminRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderStatusRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	order, err := ar.orderService.UpdateStatus(r.Context(), id, tables.OrderStatus(body.Status))
	if err != nil {
		handling.HandleError(err, "Unable to update order status", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Order status updated"), gecho.WithData(order), gecho.Send())
}

func (ar *AdminRoutesManager) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.PaymentStatusRequest](r)
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	order, err := ar.orderService.UpdatePaymentStatus(r.Context(), id, tables.PaymentStatus(body.PaymentStatus))
	if err != nil {
		handling.HandleError(err, "Unable to update payment status", ar.logger, w)
		return
	}
	gecho.Success(w, gecho.WithMessage("Payment status updated"), gecho.WithData(order), gecho.Send())
}

func (ar *AdminRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.InvalidBody(err, ar.logger, w)
		return
	}

	if err := ar.orderService.Delete(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete order", ar.logger, w)
		return
	}
	handling.NoContent(w)
}
