package services

import (
	"context"
	"errors"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// WishlistService manages saved products of logged-in users.
type WishlistService struct {
	logger *gecho.Logger
	store  storage.Storage
}

func NewWishlistService(logger *gecho.Logger, store storage.Storage) *WishlistService {
	return &WishlistService{
		logger: logger,
		store:  store,
	}
}

func (ws *WishlistService) List(ctx context.Context, userID uuid.UUID) ([]*tables.WishlistItem, error) {
	items, err := ws.store.ListWishlist(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*tables.WishlistItem{}
	}
	return items, nil
}

// Add saves the product. The bool is false when it was already on the wishlist.
func (ws *WishlistService) Add(ctx context.Context, userID, productID uuid.UUID) (*tables.WishlistItem, bool, error) {
	if _, err := ws.store.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, false, lib.NewValidationError("productId", "product does not exist")
		}
		return nil, false, err
	}

	return ws.store.AddToWishlist(ctx, &tables.WishlistItem{
		UserID:    userID,
		ProductID: productID,
	})
}

func (ws *WishlistService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return ws.store.RemoveFromWishlist(ctx, userID, productID)
}
