package storage

import (
	"context"
	"modfy_server/database"
	"modfy_server/lib"
	"modfy_server/structs/tables"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

func (s *DBStorage) PlaceOrder(ctx context.Context, owner Owner, build OrderBuilder) (*tables.Order, error) {
	if owner.IsZero() {
		return nil, lib.ErrEmptyCart
	}

	var orderID uuid.UUID
	err := s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		rows, err := scopeOwner(database.QueryTx[tables.CartItem](tx), owner, "ci.").
			OrderBy("ci.created_at", database.ASC).
			ForUpdate().
			All(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}
		if len(rows) == 0 {
			return lib.ErrEmptyCart
		}

		// Products are loaded apart from the locked lines: FOR UPDATE does not mix with outer joins.
		productIDs := make([]uuid.UUID, 0, len(rows))
		for _, row := range rows {
			productIDs = append(productIDs, row.ProductID)
		}
		products, err := database.QueryTx[tables.Product](tx).WhereIn("p.id", productIDs).All(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}
		byID := make(map[uuid.UUID]*tables.Product, len(products))
		for i := range products {
			byID[products[i].ID] = &products[i]
		}

		lines := pointers(rows)
		for _, line := range lines {
			line.Product = byID[line.ProductID]
		}

		order, items, err := build(lines)
		if err != nil {
			return err
		}

		ensureID(&order.ID)
		s.stamp(&order.CreatedAt, &order.UpdatedAt)
		order.Items = nil
		if err := database.QueryTx[tables.Order](tx).Insert(ctx, order); err != nil {
			return lib.MapDBError(err)
		}

		for _, item := range items {
			ensureID(&item.ID)
			item.OrderID = order.ID
			s.stamp(&item.CreatedAt, nil)
		}
		if err := database.QueryTx[tables.OrderItem](tx).InsertMany(ctx, items); err != nil {
			return lib.MapDBError(err)
		}

		if _, err := scopeOwner(database.QueryTx[tables.CartItem](tx), owner, "").Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, orderID)
}

func (s *DBStorage) ListOrders(ctx context.Context, filter OrderFilter) ([]*tables.Order, error) {
	q := database.Query[tables.Order](s.db).With("Items")
	if filter.UserID != nil {
		q = q.Where("o.user_id", *filter.UserID)
	}
	if filter.Status != "" {
		q = q.Where("o.status", filter.Status)
	}
	orders, err := q.OrderBy("o.created_at", database.DESC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(orders), nil
}

func (s *DBStorage) GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	return found(database.Query[tables.Order](s.db).With("Items").Where("o.id", id).First(ctx))
}

func (s *DBStorage) updateOrder(ctx context.Context, id uuid.UUID, column string, value any) (*tables.Order, error) {
	err := affected(database.Query[tables.Order](s.db).Where("id", id).UpdateSet(ctx, map[string]any{
		column:       value,
		"updated_at": s.now().UTC(),
	}))
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

func (s *DBStorage) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status tables.OrderStatus) (*tables.Order, error) {
	return s.updateOrder(ctx, id, "status", status)
}

func (s *DBStorage) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status tables.PaymentStatus) (*tables.Order, error) {
	return s.updateOrder(ctx, id, "payment_status", status)
}

func (s *DBStorage) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.QueryTx[tables.OrderItem](tx).Where("order_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		return affected(database.QueryTx[tables.Order](tx).Where("id", id).Delete(ctx))
	})
}

func (s *DBStorage) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	exists, err := database.Query[tables.OrderItem](s.db).
		Where("oi.product_id", productID).
		WhereRaw("oi.order_id IN (SELECT o.id FROM orders AS o WHERE o.user_id = ? AND o.status <> ?)",
			userID, tables.OrderStatusCancelled).
		Exists(ctx)
	if err != nil {
		return false, lib.MapDBError(err)
	}
	return exists, nil
}

// Reviews

func (s *DBStorage) ListReviews(ctx context.Context, productID uuid.UUID) ([]*tables.Review, error) {
	reviews, err := database.Query[tables.Review](s.db).
		Where("r.product_id", productID).
		OrderBy("r.created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(reviews), nil
}

func (s *DBStorage) GetReview(ctx context.Context, id uuid.UUID) (*tables.Review, error) {
	return found(database.Query[tables.Review](s.db).Where("r.id", id).First(ctx))
}

func (s *DBStorage) CreateReview(ctx context.Context, review *tables.Review) error {
	exists, err := database.Query[tables.Product](s.db).Where("p.id", review.ProductID).Exists(ctx)
	if err != nil {
		return lib.MapDBError(err)
	}
	if !exists {
		return lib.ErrNotFound
	}

	ensureID(&review.ID)
	s.stamp(&review.CreatedAt, nil)
	return lib.MapDBError(database.Query[tables.Review](s.db).Insert(ctx, review))
}

func (s *DBStorage) DeleteReview(ctx context.Context, id uuid.UUID) error {
	return affected(database.Query[tables.Review](s.db).Where("id", id).Delete(ctx))
}

func (s *DBStorage) RandomReviews(ctx context.Context, limit int) ([]*tables.Review, error) {
	random := "RANDOM()"
	if s.db.Dialect().Name() == dialect.MySQL {
		random = "RAND()"
	}

	var reviews []*tables.Review
	err := s.db.NewSelect().
		Model(&reviews).
		Relation("Product").
		OrderExpr(random).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return reviews, nil
}
