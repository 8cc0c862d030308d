package services

import (
	"context"
	"errors"
	"fmt"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"slices"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CheckoutResult is the placed order plus the WhatsApp link that hands the customer off.
type CheckoutResult struct {
	Order       *tables.Order `json:"order"`
	WhatsAppURL string        `json:"whatsappUrl"`
}

var orderTransitions = map[tables.OrderStatus][]tables.OrderStatus{
	tables.OrderStatusPending:   {tables.OrderStatusConfirmed, tables.OrderStatusCancelled},
	tables.OrderStatusConfirmed: {tables.OrderStatusShipped, tables.OrderStatusCancelled},
	tables.OrderStatusShipped:   {tables.OrderStatusDelivered},
	tables.OrderStatusDelivered: {},
	tables.OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from current to next.
func CanTransition(current, next tables.OrderStatus) bool {
	return slices.Contains(orderTransitions[current], next)
}

type OrderService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	store        storage.Storage
	emailService *EmailService
	now          func() time.Time
}

func NewOrderService(logger *gecho.Logger, cfg *structs.Config, store storage.Storage, emailService *EmailService) *OrderService {
	return &OrderService{
		logger:       logger,
		cfg:          cfg,
		store:        store,
		emailService: emailService,
		now:          time.Now,
	}
}

// BuildOrder prices the cart lines and snapshots each product into an order item.
func BuildOrder(lines []*tables.CartItem) ([]*tables.OrderItem, uint64, error) {
	items := make([]*tables.OrderItem, 0, len(lines))
	var total uint64

	for _, line := range lines {
		if line.Product == nil {
			return nil, 0, lib.NewValidationError("cart", "a product in your cart is no longer available")
		}
		if !line.Product.IsActive {
			return nil, 0, lib.NewValidationError("cart", line.Product.Name+" is no longer available")
		}

		unit := line.Product.UnitPrice(line.Size)
		lineTotal := unit * uint64(line.Quantity)
		total += lineTotal

		items = append(items, &tables.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Product.Name,
			ProductImage: line.Product.PrimaryImage(),
			Size:         line.Size,
			Color:        line.Color,
			Quantity:     line.Quantity,
			UnitPrice:    unit,
			TotalPrice:   lineTotal,
		})
	}
	return items, total, nil
}

// Checkout turns the user's cart into a pending order in one transaction.
func (os *OrderService) Checkout(ctx context.Context, session *structs.Session, req *structs.CheckoutRequest) (*CheckoutResult, error) {
	if !session.IsAuthenticated() {
		return nil, lib.ErrUnauthenticated
	}
	userID := *session.UserID

	customerEmail := strings.TrimSpace(req.CustomerEmail)
	if customerEmail == "" && session.User != nil {
		customerEmail = session.User.Email
	}

	order, err := os.store.PlaceOrder(ctx, storage.UserOwner(userID), func(lines []*tables.CartItem) (*tables.Order, []*tables.OrderItem, error) {
		items, total, err := BuildOrder(lines)
		if err != nil {
			return nil, nil, err
		}

		order := &tables.Order{
			UserID:        userID,
			OrderNumber:   lib.GenerateOrderNumber(os.now()),
			Status:        tables.OrderStatusPending,
			PaymentStatus: tables.PaymentStatusPending,
			TotalAmount:   total,
			CustomerEmail: customerEmail,
			DeliveryAddress: tables.DeliveryAddress{
				FullName:     strings.TrimSpace(req.DeliveryAddress.FullName),
				AddressLine1: strings.TrimSpace(req.DeliveryAddress.AddressLine1),
				AddressLine2: strings.TrimSpace(req.DeliveryAddress.AddressLine2),
				City:         strings.TrimSpace(req.DeliveryAddress.City),
				PostalCode:   strings.TrimSpace(req.DeliveryAddress.PostalCode),
			},
			PhoneNumber: strings.TrimSpace(req.PhoneNumber),
			Notes:       strings.TrimSpace(req.Notes),
		}
		return order, items, nil
	})
	if err != nil {
		reason := "storage"
		switch {
		case errors.Is(err, lib.ErrEmptyCart):
			reason = "empty_cart"
		case errors.As(err, new(*lib.ValidationError)):
			reason = "validation"
		}
		CheckoutFailedTotal.WithLabelValues(reason).Inc()
		if reason == "storage" {
			os.logger.Error("Failed to place order", gecho.Field("error", err), gecho.Field("user_id", userID))
		}
		return nil, err
	}

	OrdersCreatedTotal.Inc()
	OrderRevenueCents.Add(float64(order.TotalAmount))
	os.logger.Info("Order placed",
		gecho.Field("order_id", order.ID),
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("total", order.TotalAmount),
		gecho.Field("items", len(order.Items)))

	customerName := order.DeliveryAddress.FullName
	if order.CustomerEmail != "" {
		os.emailService.Go("order_confirmation", func() error {
			return os.emailService.SendOrderConfirmationEmail(order.CustomerEmail, customerName, order)
		})
	}
	os.emailService.Go("admin_order", func() error {
		return os.emailService.SendAdminOrderNotification(customerName, order)
	})

	return &CheckoutResult{
		Order:       order,
		WhatsAppURL: lib.BuildWhatsAppURL(os.whatsAppNumber(ctx), os.WhatsAppMessage(order)),
	}, nil
}

// whatsAppNumber prefers the contact setting over the configured default.
func (os *OrderService) whatsAppNumber(ctx context.Context) string {
	setting, err := os.store.GetContactSetting(ctx, tables.SettingWhatsAppNumber)
	if err == nil && strings.TrimSpace(setting.Value) != "" {
		return setting.Value
	}
	if err != nil && !errors.Is(err, lib.ErrNotFound) {
		os.logger.Warn("Failed to read whatsapp setting", gecho.Field("error", err))
	}
	return os.cfg.Shop.WhatsAppNumber
}

// WhatsAppMessage is the prefilled chat text for an order.
func (os *OrderService) WhatsAppMessage(order *tables.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello! I'd like to confirm my order.\n\n")
	fmt.Fprintf(&b, "Order Number: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Total: %s\n\n", lib.FormatMoney(os.cfg.Shop.Currency, order.TotalAmount))

	b.WriteString("Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %dx %s", item.Quantity, item.ProductName)
		if item.Size != "" {
			fmt.Fprintf(&b, " (%s)", item.Size)
		}
		if item.Color != "" {
			fmt.Fprintf(&b, " %s", item.Color)
		}
		b.WriteString("\n")
	}

	addr := order.DeliveryAddress
	b.WriteString("\nDelivery Address:\n")
	b.WriteString(addr.FullName + "\n")
	b.WriteString(addr.AddressLine1 + "\n")
	if addr.AddressLine2 != "" {
		b.WriteString(addr.AddressLine2 + "\n")
	}
	b.WriteString(strings.TrimSpace(addr.City+" "+addr.PostalCode) + "\n")
	fmt.Fprintf(&b, "\nPhone: %s", order.PhoneNumber)
	if order.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", order.Notes)
	}
	return b.String()
}

func (os *OrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*tables.Order, error) {
	return os.list(ctx, storage.OrderFilter{UserID: &userID})
}

func (os *OrderService) ListAll(ctx context.Context, status tables.OrderStatus) ([]*tables.Order, error) {
	return os.list(ctx, storage.OrderFilter{Status: status})
}

func (os *OrderService) list(ctx context.Context, filter storage.OrderFilter) ([]*tables.Order, error) {
	orders, err := os.store.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*tables.Order{}
	}
	return orders, nil
}

// GetForUser hides other users' orders behind lib.ErrNotFound.
func (os *OrderService) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*tables.Order, error) {
	order, err := os.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, lib.ErrNotFound
	}
	return order, nil
}

func (os *OrderService) Get(ctx context.Context, orderID uuid.UUID) (*tables.Order, error) {
	return os.store.GetOrder(ctx, orderID)
}

// UpdateStatus applies a status change allowed by the transition table and emails the customer.
func (os *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, next tables.OrderStatus) (*tables.Order, error) {
	order, err := os.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, next) {
		os.logger.Warn("Rejected order status transition",
			gecho.Field("order_id", orderID),
			gecho.Field("from", order.Status),
			gecho.Field("to", next))
		return nil, fmt.Errorf("%w from %s to %s", lib.ErrInvalidStatusTransition, order.Status, next)
	}

	updated, err := os.store.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return nil, err
	}

	OrderStatusChangesTotal.WithLabelValues(string(next)).Inc()
	os.logger.Info("Order status updated",
		gecho.Field("order_id", orderID),
		gecho.Field("old_status", order.Status),
		gecho.Field("new_status", next))

	if updated.CustomerEmail != "" {
		os.emailService.Go("order_status", func() error {
			return os.emailService.SendOrderStatusEmail(updated.CustomerEmail, updated.DeliveryAddress.FullName, updated)
		})
	}
	return updated, nil
}

func (os *OrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status tables.PaymentStatus) (*tables.Order, error) {
	switch status {
	case tables.PaymentStatusPending, tables.PaymentStatusPaid, tables.PaymentStatusFailed:
	default:
		return nil, lib.NewValidationError("paymentStatus", "must be one of: pending paid failed")
	}

	order, err := os.store.UpdatePaymentStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	os.logger.Info("Order payment status updated", gecho.Field("order_id", orderID), gecho.Field("payment_status", status))
	return order, nil
}

func (os *OrderService) Delete(ctx context.Context, orderID uuid.UUID) error {
	return os.store.DeleteOrder(ctx, orderID)
}
