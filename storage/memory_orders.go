package storage

import (
	"context"
	"math/rand/v2"
	"modfy_server/lib"
	"modfy_server/structs/tables"
	"slices"

	"github.com/google/uuid"
)

func (m *MemStorage) orderWithItems(o *tables.Order) *tables.Order {
	cp := *o
	cp.Items = make([]*tables.OrderItem, 0, len(m.orderItems[o.ID]))
	for _, item := range m.orderItems[o.ID] {
		itemCopy := *item
		cp.Items = append(cp.Items, &itemCopy)
	}
	return &cp
}

func (m *MemStorage) PlaceOrder(ctx context.Context, owner Owner, build OrderBuilder) (*tables.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if owner.IsZero() {
		return nil, lib.ErrEmptyCart
	}
	stored := m.ownerLines(owner)
	if len(stored) == 0 {
		return nil, lib.ErrEmptyCart
	}
	lines := make([]*tables.CartItem, 0, len(stored))
	for _, item := range stored {
		lines = append(lines, m.cartLine(item))
	}

	order, items, err := build(lines)
	if err != nil {
		return nil, err
	}

	for _, o := range m.orders {
		if o.OrderNumber == order.OrderNumber {
			return nil, lib.ErrConflict
		}
	}

	ensureID(&order.ID)
	m.stamp(&order.CreatedAt, &order.UpdatedAt)
	for _, item := range items {
		ensureID(&item.ID)
		item.OrderID = order.ID
		m.stamp(&item.CreatedAt, nil)
	}

	storedOrder := *order
	storedOrder.Items = nil
	m.orders[order.ID] = &storedOrder
	storedItems := make([]*tables.OrderItem, 0, len(items))
	for _, item := range items {
		cp := *item
		storedItems = append(storedItems, &cp)
	}
	m.orderItems[order.ID] = storedItems

	m.clearCart(owner)
	return m.orderWithItems(&storedOrder), nil
}

func (m *MemStorage) ListOrders(ctx context.Context, filter OrderFilter) ([]*tables.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.Order, 0)
	for _, o := range m.orders {
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, m.orderWithItems(o))
	}
	slices.SortFunc(out, func(a, b *tables.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *MemStorage) GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return m.orderWithItems(o), nil
}

func (m *MemStorage) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status tables.OrderStatus) (*tables.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	o.Status = status
	m.stamp(nil, &o.UpdatedAt)
	return m.orderWithItems(o), nil
}

func (m *MemStorage) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status tables.PaymentStatus) (*tables.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.orders[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	o.PaymentStatus = status
	m.stamp(nil, &o.UpdatedAt)
	return m.orderWithItems(o), nil
}

func (m *MemStorage) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.orders[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.orders, id)
	delete(m.orderItems, id)
	return nil
}

func (m *MemStorage) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, o := range m.orders {
		if o.UserID != userID || o.Status == tables.OrderStatusCancelled {
			continue
		}
		for _, item := range m.orderItems[o.ID] {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// Reviews

func (m *MemStorage) reviewCopy(r *tables.Review, withProduct bool) *tables.Review {
	cp := *r
	if r.UserID != nil {
		id := *r.UserID
		cp.UserID = &id
	}
	cp.Product = nil
	if withProduct {
		if p, ok := m.products[r.ProductID]; ok {
			cp.Product = cloneProduct(p)
		}
	}
	return &cp
}

func (m *MemStorage) ListReviews(ctx context.Context, productID uuid.UUID) ([]*tables.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.Review, 0)
	for _, r := range m.reviews {
		if r.ProductID == productID {
			out = append(out, m.reviewCopy(r, false))
		}
	}
	slices.SortFunc(out, func(a, b *tables.Review) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *MemStorage) GetReview(ctx context.Context, id uuid.UUID) (*tables.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reviews[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return m.reviewCopy(r, false), nil
}

func (m *MemStorage) CreateReview(ctx context.Context, review *tables.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[review.ProductID]; !ok {
		return lib.ErrNotFound
	}
	ensureID(&review.ID)
	m.stamp(&review.CreatedAt, nil)
	stored := *review
	stored.Product = nil
	m.reviews[review.ID] = &stored
	return nil
}

func (m *MemStorage) DeleteReview(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.reviews[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.reviews, id)
	return nil
}

func (m *MemStorage) RandomReviews(ctx context.Context, limit int) ([]*tables.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		out = append(out, m.reviewCopy(r, true))
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
