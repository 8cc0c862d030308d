package services

import (
	"context"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCreate(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Field Jacket", 18000)

	var ve *lib.ValidationError
	_, err := sm.ReviewService.Create(ctx, &structs.Session{ID: "guest"}, p.ID, &structs.ReviewRequest{Rating: 6})
	assert.ErrorAs(t, err, &ve)

	guestReview, err := sm.ReviewService.Create(ctx, &structs.Session{ID: "guest"}, p.ID, &structs.ReviewRequest{Rating: 4, Comment: "  Nice fit  "})
	require.NoError(t, err)
	assert.Equal(t, "guest", guestReview.SessionID)
	assert.Equal(t, "Anonymous", guestReview.AuthorName)
	assert.Equal(t, "Nice fit", guestReview.Comment)
	assert.False(t, guestReview.IsVerifiedPurchase)

	buyer := seedUser(t, sm, "reviewer@example.com")
	_, err = sm.CartService.Add(ctx, storage.UserOwner(buyer.ID), &structs.AddToCartRequest{ProductID: p.ID, Size: "M"})
	require.NoError(t, err)
	_, err = sm.OrderService.Checkout(ctx, sessionFor(buyer), checkoutRequest())
	require.NoError(t, err)

	buyerReview, err := sm.ReviewService.Create(ctx, sessionFor(buyer), p.ID, &structs.ReviewRequest{Rating: 5})
	require.NoError(t, err)
	assert.True(t, buyerReview.IsVerifiedPurchase)
	assert.Equal(t, "Nimal Perera", buyerReview.AuthorName)

	reviews, err := sm.ReviewService.List(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)

	_, err = sm.ReviewService.List(ctx, uuid.New())
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestReviewDeletePermissions(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Wool Scarf", 3500)

	review, err := sm.ReviewService.Create(ctx, &structs.Session{ID: "author"}, p.ID, &structs.ReviewRequest{Rating: 3})
	require.NoError(t, err)

	err = sm.ReviewService.Delete(ctx, &structs.Session{ID: "someone-else"}, p.ID, review.ID)
	assert.ErrorIs(t, err, lib.ErrForbidden)

	err = sm.ReviewService.Delete(ctx, &structs.Session{ID: "author"}, uuid.New(), review.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	require.NoError(t, sm.ReviewService.Delete(ctx, &structs.Session{ID: "author"}, p.ID, review.ID))

	again, err := sm.ReviewService.Create(ctx, &structs.Session{ID: "author"}, p.ID, &structs.ReviewRequest{Rating: 2})
	require.NoError(t, err)
	admin := &tables.User{ID: uuid.New(), Email: "admin@example.com", Role: tables.RoleAdmin}
	require.NoError(t, sm.ReviewService.Delete(ctx, sessionFor(admin), p.ID, again.ID))
}

func TestRandomReviewsLimit(t *testing.T) {
	sm, store := newTestServices(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Leather Belt", 4500)

	for i := range 5 {
		_, err := sm.ReviewService.Create(ctx, &structs.Session{ID: "guest"}, p.ID, &structs.ReviewRequest{Rating: 1 + i%5})
		require.NoError(t, err)
	}

	reviews, err := sm.ReviewService.Random(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, reviews, DefaultRandomReviews)

	reviews, err = sm.ReviewService.Random(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, reviews, 5)
}

func TestContactMessagesAndSettings(t *testing.T) {
	sm, _ := newTestServices(t)
	ctx := context.Background()

	msg, err := sm.ContactService.Submit(ctx, &structs.ContactRequest{
		Name:    "Kasun",
		Email:   " Kasun@Example.com",
		Subject: "Sizing",
		Message: "Does the oxford run small?",
	})
	require.NoError(t, err)
	assert.Equal(t, tables.ContactStatusUnread, msg.Status)
	assert.Equal(t, "kasun@example.com", msg.Email)

	updated, err := sm.ContactService.UpdateStatus(ctx, msg.ID, tables.ContactStatusRead)
	require.NoError(t, err)
	assert.Equal(t, tables.ContactStatusRead, updated.Status)

	settings, err := sm.ContactService.SaveSettings(ctx, map[string]string{
		tables.SettingWhatsAppNumber: " +94 71 000 0000 ",
		"  ":                         "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "+94 71 000 0000", settings[tables.SettingWhatsAppNumber])
	assert.Len(t, settings, 1)

	// the setting overrides the configured number at checkout
	assert.Equal(t, "+94 71 000 0000", sm.OrderService.whatsAppNumber(ctx))
}
