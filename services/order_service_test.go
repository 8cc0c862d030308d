package services

import (
	"context"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutRequest() *structs.CheckoutRequest {
	return &structs.CheckoutRequest{
		DeliveryAddress: structs.DeliveryAddressRequest{
			FullName:     "Nimal Perera",
			AddressLine1: "12 Galle Road",
			City:         "Colombo",
			PostalCode:   "00300",
		},
		PhoneNumber: "0771234567",
		Notes:       "Leave at the gate",
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to tables.OrderStatus
		want     bool
	}{
		{tables.OrderStatusPending, tables.OrderStatusConfirmed, true},
		{tables.OrderStatusPending, tables.OrderStatusCancelled, true},
		{tables.OrderStatusPending, tables.OrderStatusShipped, false},
		{tables.OrderStatusConfirmed, tables.OrderStatusShipped, true},
		{tables.OrderStatusShipped, tables.OrderStatusDelivered, true},
		{tables.OrderStatusShipped, tables.OrderStatusCancelled, false},
		{tables.OrderStatusDelivered, tables.OrderStatusCancelled, false},
		{tables.OrderStatusCancelled, tables.OrderStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestCheckoutRequiresItems(t *testing.T) {
	sm, _ := newTestServices(t)
	user := seedUser(t, sm, "empty@example.com")

	_, err := sm.OrderService.Checkout(context.Background(), sessionFor(user), checkoutRequest())
	assert.ErrorIs(t, err, lib.ErrEmptyCart)

	_, err = sm.OrderService.Checkout(context.Background(), &structs.Session{ID: "guest"}, checkoutRequest())
	assert.ErrorIs(t, err, lib.ErrUnauthenticated)
}

func TestCheckoutSnapshotsCart(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Oxford Shirt", 6500)
	user := seedUser(t, sm, "buyer@example.com")
	owner := storage.UserOwner(user.ID)

	_, err := sm.CartService.Add(ctx, owner, &structs.AddToCartRequest{ProductID: p.ID, Size: "M", Quantity: 2})
	require.NoError(t, err)
	_, err = sm.CartService.Add(ctx, owner, &structs.AddToCartRequest{ProductID: p.ID, Size: "L", Color: "Black"})
	require.NoError(t, err)

	result, err := sm.OrderService.Checkout(ctx, sessionFor(user), checkoutRequest())
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, tables.OrderStatusPending, order.Status)
	assert.Equal(t, tables.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, uint64(2*6500+7000), order.TotalAmount)
	assert.Equal(t, "buyer@example.com", order.CustomerEmail)
	assert.Regexp(t, `^ORD-[0-9A-Z]+-[0-9A-Z]{3}$`, order.OrderNumber)
	require.Len(t, order.Items, 2)
	for _, item := range order.Items {
		assert.Equal(t, "Oxford Shirt", item.ProductName)
		assert.Equal(t, item.UnitPrice*uint64(item.Quantity), item.TotalPrice)
	}

	assert.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/94771234567?text="))
	assert.Contains(t, result.WhatsAppURL, order.OrderNumber)

	cart, err := sm.CartService.Get(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	p.Price = 9900
	p.Name = "Renamed Shirt"
	require.NoError(t, store.UpdateProduct(ctx, p))

	stored, err := sm.OrderService.GetForUser(ctx, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2*6500+7000), stored.TotalAmount)
	for _, item := range stored.Items {
		assert.Equal(t, "Oxford Shirt", item.ProductName)
	}

	stranger := seedUser(t, sm, "stranger@example.com")
	_, err = sm.OrderService.GetForUser(ctx, stranger.ID, order.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	mine, err := sm.OrderService.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	theirs, err := sm.OrderService.ListForUser(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestCheckoutRejectsInactiveProducts(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Retired Shirt", 6500)
	user := seedUser(t, sm, "late@example.com")

	_, err := sm.CartService.Add(ctx, storage.UserOwner(user.ID), &structs.AddToCartRequest{ProductID: p.ID, Size: "M"})
	require.NoError(t, err)

	p.IsActive = false
	require.NoError(t, store.UpdateProduct(ctx, p))

	_, err = sm.OrderService.Checkout(ctx, sessionFor(user), checkoutRequest())
	var ve *lib.ValidationError
	require.ErrorAs(t, err, &ve)

	cart, err := sm.CartService.Get(ctx, storage.UserOwner(user.ID))
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestOrderStatusUpdates(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Denim Jacket", 15000)
	user := seedUser(t, sm, "status@example.com")

	_, err := sm.CartService.Add(ctx, storage.UserOwner(user.ID), &structs.AddToCartRequest{ProductID: p.ID, Size: "M"})
	require.NoError(t, err)
	result, err := sm.OrderService.Checkout(ctx, sessionFor(user), checkoutRequest())
	require.NoError(t, err)
	id := result.Order.ID

	_, err = sm.OrderService.UpdateStatus(ctx, id, tables.OrderStatusShipped)
	assert.ErrorIs(t, err, lib.ErrInvalidStatusTransition)

	for _, next := range []tables.OrderStatus{tables.OrderStatusConfirmed, tables.OrderStatusShipped, tables.OrderStatusDelivered} {
		order, err := sm.OrderService.UpdateStatus(ctx, id, next)
		require.NoError(t, err)
		assert.Equal(t, next, order.Status)
	}

	_, err = sm.OrderService.UpdateStatus(ctx, id, tables.OrderStatusCancelled)
	assert.ErrorIs(t, err, lib.ErrInvalidStatusTransition)

	paid, err := sm.OrderService.UpdatePaymentStatus(ctx, id, tables.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentStatusPaid, paid.PaymentStatus)

	_, err = sm.OrderService.UpdatePaymentStatus(ctx, id, "refunded")
	var ve *lib.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestWhatsAppMessage(t *testing.T) {
	sm, _ := newTestServices(t)
	order := &tables.Order{
		OrderNumber: "ORD-ABC-123",
		TotalAmount: 150000,
		DeliveryAddress: tables.DeliveryAddress{
			FullName:     "Nimal Perera",
			AddressLine1: "12 Galle Road",
			City:         "Colombo",
		},
		PhoneNumber: "0771234567",
		Items: []*tables.OrderItem{
			{ProductName: "Oxford Shirt", Quantity: 2, Size: "M", Color: "White"},
		},
	}

	msg := sm.OrderService.WhatsAppMessage(order)
	assert.Contains(t, msg, "Order Number: ORD-ABC-123")
	assert.Contains(t, msg, "Total: LKR 1,500.00")
	assert.Contains(t, msg, "- 2x Oxford Shirt (M) White")
	assert.Contains(t, msg, "Phone: 0771234567")
	assert.NotContains(t, msg, "Notes:")
}
