package storage

import (
	"context"
	"errors"
	"modfy_server/database"
	"modfy_server/lib"
	"modfy_server/structs/tables"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// scopeOwner narrows a cart query to the owner's lines. Column names are passed with
// the alias prefix the query needs.
func scopeOwner(q *database.QueryBuilder[tables.CartItem], owner Owner, prefix string) *database.QueryBuilder[tables.CartItem] {
	if owner.UserID != nil {
		return q.Where(prefix+"user_id", *owner.UserID)
	}
	return q.Where(prefix+"session_id", owner.SessionID).WhereNull(prefix + "user_id")
}

func (s *DBStorage) ListCartItems(ctx context.Context, owner Owner) ([]*tables.CartItem, error) {
	if owner.IsZero() {
		return nil, nil
	}
	q := database.Query[tables.CartItem](s.db).With("Product").With("Product.Category").With("Product.Subcategory")
	items, err := scopeOwner(q, owner, "ci.").OrderBy("ci.created_at", database.ASC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(items), nil
}

func (s *DBStorage) GetCartItem(ctx context.Context, id uuid.UUID) (*tables.CartItem, error) {
	return found(database.Query[tables.CartItem](s.db).With("Product").Where("ci.id", id).First(ctx))
}

func (s *DBStorage) AddToCart(ctx context.Context, item *tables.CartItem) (*tables.CartItem, error) {
	owner := Owner{SessionID: item.SessionID, UserID: item.UserID}

	var id uuid.UUID
	err := s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		q := database.QueryTx[tables.CartItem](tx).
			Where("ci.product_id", item.ProductID).
			Where("ci.size", item.Size).
			Where("ci.color", item.Color)
		existing, err := scopeOwner(q, owner, "ci.").ForUpdate().First(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}

		if existing != nil {
			existing.AddQuantity(item.Quantity)
			s.stamp(nil, &existing.UpdatedAt)
			id = existing.ID
			_, err = database.QueryTx[tables.CartItem](tx).Update(ctx, existing, "quantity", "updated_at")
			return lib.MapDBError(err)
		}

		ensureID(&item.ID)
		s.stamp(&item.CreatedAt, &item.UpdatedAt)
		id = item.ID
		return lib.MapDBError(database.QueryTx[tables.CartItem](tx).Insert(ctx, item))
	})
	if err != nil {
		return nil, err
	}
	return s.GetCartItem(ctx, id)
}

func (s *DBStorage) UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*tables.CartItem, error) {
	err := affected(database.Query[tables.CartItem](s.db).Where("id", id).UpdateSet(ctx, map[string]any{
		"quantity":   quantity,
		"updated_at": s.now().UTC(),
	}))
	if err != nil {
		return nil, err
	}
	return s.GetCartItem(ctx, id)
}

func (s *DBStorage) RemoveCartItem(ctx context.Context, id uuid.UUID) error {
	return affected(database.Query[tables.CartItem](s.db).Where("id", id).Delete(ctx))
}

func (s *DBStorage) ClearCart(ctx context.Context, owner Owner) error {
	if owner.IsZero() {
		return nil
	}
	_, err := scopeOwner(database.Query[tables.CartItem](s.db), owner, "").Delete(ctx)
	return lib.MapDBError(err)
}

func (s *DBStorage) MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) error {
	if sessionID == "" {
		return nil
	}

	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		guest, err := scopeOwner(database.QueryTx[tables.CartItem](tx), SessionOwner(sessionID), "ci.").ForUpdate().All(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}
		if len(guest) == 0 {
			return nil
		}
		mine, err := scopeOwner(database.QueryTx[tables.CartItem](tx), UserOwner(userID), "ci.").ForUpdate().All(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}

		now := s.now().UTC()
		for i := range guest {
			line := &guest[i]

			var target *tables.CartItem
			for j := range mine {
				if sameLine(&mine[j], line) {
					target = &mine[j]
					break
				}
			}

			if target != nil {
				target.AddQuantity(line.Quantity)
				target.UpdatedAt = now
				if _, err := database.QueryTx[tables.CartItem](tx).Update(ctx, target, "quantity", "updated_at"); err != nil {
					return lib.MapDBError(err)
				}
				if _, err := database.QueryTx[tables.CartItem](tx).Where("id", line.ID).Delete(ctx); err != nil {
					return lib.MapDBError(err)
				}
				continue
			}

			UserOwner(userID).Apply(line)
			line.UpdatedAt = now
			if _, err := database.QueryTx[tables.CartItem](tx).Update(ctx, line, "session_id", "user_id", "updated_at"); err != nil {
				return lib.MapDBError(err)
			}
			mine = append(mine, *line)
		}
		return nil
	})
}

// Wishlist

func (s *DBStorage) ListWishlist(ctx context.Context, userID uuid.UUID) ([]*tables.WishlistItem, error) {
	items, err := database.Query[tables.WishlistItem](s.db).With("Product").With("Product.Category").
		Where("wi.user_id", userID).
		OrderBy("wi.created_at", database.DESC).
		All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(items), nil
}

func (s *DBStorage) wishlistEntry(ctx context.Context, userID, productID uuid.UUID) (*tables.WishlistItem, error) {
	return database.Query[tables.WishlistItem](s.db).With("Product").
		Where("wi.user_id", userID).
		Where("wi.product_id", productID).
		First(ctx)
}

func (s *DBStorage) AddToWishlist(ctx context.Context, item *tables.WishlistItem) (*tables.WishlistItem, bool, error) {
	existing, err := s.wishlistEntry(ctx, item.UserID, item.ProductID)
	if err != nil {
		return nil, false, lib.MapDBError(err)
	}
	if existing != nil {
		return existing, false, nil
	}

	ensureID(&item.ID)
	s.stamp(&item.CreatedAt, nil)
	if err := lib.MapDBError(database.Query[tables.WishlistItem](s.db).Insert(ctx, item)); err != nil {
		// Lost a race against a concurrent insert of the same pair.
		if errors.Is(err, lib.ErrConflict) {
			row, err := found(s.wishlistEntry(ctx, item.UserID, item.ProductID))
			return row, false, err
		}
		return nil, false, err
	}

	row, err := found(s.wishlistEntry(ctx, item.UserID, item.ProductID))
	return row, true, err
}

func (s *DBStorage) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	return affected(database.Query[tables.WishlistItem](s.db).
		Where("user_id", userID).
		Where("product_id", productID).
		Delete(ctx))
}
