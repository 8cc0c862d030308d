package services

import (
	"context"
	"errors"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CartSummary is the priced view of a cart.
type CartSummary struct {
	Items                    []*tables.CartItem `json:"items"`
	ItemCount                int                `json:"itemCount"`
	Subtotal                 uint64             `json:"subtotal"`
	FreeShippingThreshold    uint64             `json:"freeShippingThreshold"`
	QualifiesForFreeShipping bool               `json:"qualifiesForFreeShipping"`
	AmountToFreeShipping     uint64             `json:"amountToFreeShipping"`
}

type CartService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	store  storage.Storage
}

func NewCartService(logger *gecho.Logger, cfg *structs.Config, store storage.Storage) *CartService {
	return &CartService{
		logger: logger,
		cfg:    cfg,
		store:  store,
	}
}

// LineTotal prices a cart line with its size override. Lines whose product is gone count as zero.
func LineTotal(item *tables.CartItem) uint64 {
	if item.Product == nil || item.Quantity <= 0 {
		return 0
	}
	return item.Product.UnitPrice(item.Size) * uint64(item.Quantity)
}

func Summarize(items []*tables.CartItem, threshold uint64) *CartSummary {
	summary := &CartSummary{
		Items:                 items,
		FreeShippingThreshold: threshold,
	}
	if summary.Items == nil {
		summary.Items = []*tables.CartItem{}
	}

	for _, item := range items {
		summary.ItemCount += item.Quantity
		summary.Subtotal += LineTotal(item)
	}

	summary.QualifiesForFreeShipping = summary.Subtotal >= threshold
	if !summary.QualifiesForFreeShipping {
		summary.AmountToFreeShipping = threshold - summary.Subtotal
	}
	return summary
}

func (cs *CartService) Get(ctx context.Context, owner storage.Owner) (*CartSummary, error) {
	items, err := cs.store.ListCartItems(ctx, owner)
	if err != nil {
		return nil, err
	}
	return Summarize(items, cs.cfg.Shop.FreeShippingThreshold), nil
}

func (cs *CartService) Add(ctx context.Context, owner storage.Owner, req *structs.AddToCartRequest) (*tables.CartItem, error) {
	if owner.IsZero() {
		return nil, lib.ErrUnauthenticated
	}

	product, err := cs.store.GetProduct(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, lib.NewValidationError("productId", "product does not exist")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, lib.NewValidationError("productId", "product is not available")
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, lib.NewValidationError("quantity", "must be at least 1")
	}

	if len(product.Sizes) > 0 && !product.HideSizes {
		if req.Size == "" {
			return nil, lib.NewValidationError("size", "is required")
		}
		if !product.OffersSize(req.Size) {
			return nil, lib.NewValidationError("size", "is not offered for this product")
		}
	}

	item := &tables.CartItem{
		ProductID: product.ID,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  quantity,
	}
	owner.Apply(item)

	line, err := cs.store.AddToCart(ctx, item)
	if err != nil {
		cs.logger.Error("Failed to add to cart", gecho.Field("error", err), gecho.Field("product_id", product.ID))
		return nil, err
	}
	return line, nil
}

// owned loads a cart line and hides lines of other owners behind lib.ErrNotFound.
func (cs *CartService) owned(ctx context.Context, owner storage.Owner, id uuid.UUID) (*tables.CartItem, error) {
	item, err := cs.store.GetCartItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !owner.Owns(item) {
		return nil, lib.ErrNotFound
	}
	return item, nil
}

// UpdateQuantity sets the line quantity. Zero removes the line and returns nil.
func (cs *CartService) UpdateQuantity(ctx context.Context, owner storage.Owner, id uuid.UUID, quantity int) (*tables.CartItem, error) {
	if quantity < 0 {
		return nil, lib.NewValidationError("quantity", "must be greater than or equal to 0")
	}
	if _, err := cs.owned(ctx, owner, id); err != nil {
		return nil, err
	}

	if quantity == 0 {
		return nil, cs.store.RemoveCartItem(ctx, id)
	}
	return cs.store.UpdateCartItemQuantity(ctx, id, quantity)
}

func (cs *CartService) Remove(ctx context.Context, owner storage.Owner, id uuid.UUID) error {
	if _, err := cs.owned(ctx, owner, id); err != nil {
		return err
	}
	return cs.store.RemoveCartItem(ctx, id)
}

func (cs *CartService) Clear(ctx context.Context, owner storage.Owner) error {
	return cs.store.ClearCart(ctx, owner)
}

func (cs *CartService) Merge(ctx context.Context, sessionID string, userID uuid.UUID) error {
	return cs.store.MergeGuestCart(ctx, sessionID, userID)
}
