package storage

import (
	"context"
	"modfy_server/lib"
	"modfy_server/structs/tables"
	"slices"

	"github.com/google/uuid"
)

func (m *MemStorage) cartLine(item *tables.CartItem) *tables.CartItem {
	cp := *item
	if item.UserID != nil {
		id := *item.UserID
		cp.UserID = &id
	}
	cp.Product = nil
	if p, ok := m.products[item.ProductID]; ok {
		cp.Product = m.withRelations(p)
	}
	return &cp
}

// ownerLines returns the owner's stored lines oldest first. Caller holds the lock.
func (m *MemStorage) ownerLines(owner Owner) []*tables.CartItem {
	var lines []*tables.CartItem
	for _, item := range m.cartItems {
		if owner.Owns(item) {
			lines = append(lines, item)
		}
	}
	slices.SortFunc(lines, func(a, b *tables.CartItem) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return lines
}

func sameLine(a, b *tables.CartItem) bool {
	return a.ProductID == b.ProductID && a.Size == b.Size && a.Color == b.Color
}

func (m *MemStorage) ListCartItems(ctx context.Context, owner Owner) ([]*tables.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if owner.IsZero() {
		return nil, nil
	}
	lines := m.ownerLines(owner)
	out := make([]*tables.CartItem, 0, len(lines))
	for _, item := range lines {
		out = append(out, m.cartLine(item))
	}
	return out, nil
}

func (m *MemStorage) GetCartItem(ctx context.Context, id uuid.UUID) (*tables.CartItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.cartItems[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return m.cartLine(item), nil
}

func (m *MemStorage) AddToCart(ctx context.Context, item *tables.CartItem) (*tables.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owner := Owner{SessionID: item.SessionID, UserID: item.UserID}
	for _, existing := range m.ownerLines(owner) {
		if sameLine(existing, item) {
			existing.AddQuantity(item.Quantity)
			m.stamp(nil, &existing.UpdatedAt)
			return m.cartLine(existing), nil
		}
	}

	ensureID(&item.ID)
	m.stamp(&item.CreatedAt, &item.UpdatedAt)
	stored := *item
	stored.Product = nil
	m.cartItems[item.ID] = &stored
	return m.cartLine(&stored), nil
}

func (m *MemStorage) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*tables.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.cartItems[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	item.Quantity = quantity
	m.stamp(nil, &item.UpdatedAt)
	return m.cartLine(item), nil
}

func (m *MemStorage) RemoveCartItem(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cartItems[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.cartItems, id)
	return nil
}

func (m *MemStorage) ClearCart(ctx context.Context, owner Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearCart(owner)
	return nil
}

func (m *MemStorage) clearCart(owner Owner) {
	if owner.IsZero() {
		return
	}
	for id, item := range m.cartItems {
		if owner.Owns(item) {
			delete(m.cartItems, id)
		}
	}
}

func (m *MemStorage) MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID == "" {
		return nil
	}
	userLines := m.ownerLines(UserOwner(userID))
	for _, guest := range m.ownerLines(SessionOwner(sessionID)) {
		merged := false
		for _, line := range userLines {
			if sameLine(line, guest) {
				line.AddQuantity(guest.Quantity)
				m.stamp(nil, &line.UpdatedAt)
				delete(m.cartItems, guest.ID)
				merged = true
				break
			}
		}
		if !merged {
			UserOwner(userID).Apply(guest)
			m.stamp(nil, &guest.UpdatedAt)
			userLines = append(userLines, guest)
		}
	}
	return nil
}

// Wishlist

func (m *MemStorage) wishlistEntry(item *tables.WishlistItem) *tables.WishlistItem {
	cp := *item
	cp.Product = nil
	if p, ok := m.products[item.ProductID]; ok {
		cp.Product = m.withRelations(p)
	}
	return &cp
}

func (m *MemStorage) ListWishlist(ctx context.Context, userID uuid.UUID) ([]*tables.WishlistItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*tables.WishlistItem
	for _, item := range m.wishlist {
		if item.UserID == userID {
			out = append(out, m.wishlistEntry(item))
		}
	}
	slices.SortFunc(out, func(a, b *tables.WishlistItem) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *MemStorage) AddToWishlist(ctx context.Context, item *tables.WishlistItem) (*tables.WishlistItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.wishlist {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return m.wishlistEntry(existing), false, nil
		}
	}
	ensureID(&item.ID)
	m.stamp(&item.CreatedAt, nil)
	stored := *item
	stored.Product = nil
	m.wishlist[item.ID] = &stored
	return m.wishlistEntry(&stored), true, nil
}

func (m *MemStorage) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, item := range m.wishlist {
		if item.UserID == userID && item.ProductID == productID {
			delete(m.wishlist, id)
			return nil
		}
	}
	return lib.ErrNotFound
}
