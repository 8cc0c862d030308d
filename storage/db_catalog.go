package storage

import (
	"context"
	"modfy_server/database"
	"modfy_server/lib"
	"modfy_server/structs/tables"
	"slices"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Categories

func (s *DBStorage) ListCategories(ctx context.Context, activeOnly bool) ([]*tables.Category, error) {
	q := database.Query[tables.Category](s.db)
	if activeOnly {
		q = q.Where("c.is_active", true)
	}
	categories, err := q.OrderBy("c.sort_order", database.ASC).OrderBy("c.name", database.ASC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(categories), nil
}

func (s *DBStorage) GetCategory(ctx context.Context, id uuid.UUID) (*tables.Category, error) {
	return found(database.Query[tables.Category](s.db).Where("c.id", id).First(ctx))
}

func (s *DBStorage) GetCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	return found(database.Query[tables.Category](s.db).Where("c.slug", slug).First(ctx))
}

func (s *DBStorage) CreateCategory(ctx context.Context, category *tables.Category) error {
	ensureID(&category.ID)
	s.stamp(&category.CreatedAt, nil)
	return lib.MapDBError(database.Query[tables.Category](s.db).Insert(ctx, category))
}

func (s *DBStorage) UpdateCategory(ctx context.Context, category *tables.Category) error {
	return affected(database.Query[tables.Category](s.db).Update(ctx, category,
		"name", "slug", "description", "image_url", "parent_id", "sort_order", "is_active"))
}

func (s *DBStorage) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		children, err := database.QueryTx[tables.Category](tx).Where("c.parent_id", id).All(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}
		ids := []uuid.UUID{id}
		for _, child := range children {
			ids = append(ids, child.ID)
		}

		if _, err := database.QueryTx[tables.Product](tx).WhereIn("category_id", ids).
			UpdateSet(ctx, map[string]any{"category_id": nil}); err != nil {
			return lib.MapDBError(err)
		}
		if _, err := database.QueryTx[tables.Product](tx).WhereIn("subcategory_id", ids).
			UpdateSet(ctx, map[string]any{"subcategory_id": nil}); err != nil {
			return lib.MapDBError(err)
		}
		if len(children) > 0 {
			if _, err := database.QueryTx[tables.Category](tx).Where("parent_id", id).Delete(ctx); err != nil {
				return lib.MapDBError(err)
			}
		}
		return affected(database.QueryTx[tables.Category](tx).Where("id", id).Delete(ctx))
	})
}

func (s *DBStorage) ReorderCategories(ctx context.Context, ids []uuid.UUID) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		for i, id := range ids {
			err := affected(database.QueryTx[tables.Category](tx).Where("id", id).
				UpdateSet(ctx, map[string]any{"sort_order": i}))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Products

func (s *DBStorage) productQuery() *database.QueryBuilder[tables.Product] {
	return database.Query[tables.Product](s.db).With("Category").With("Subcategory")
}

func (s *DBStorage) ListProducts(ctx context.Context, filter ProductFilter) ([]*tables.Product, error) {
	q := s.productQuery()
	if filter.CategoryID != nil {
		q = q.Where("p.category_id", *filter.CategoryID)
	}
	if filter.SubcategoryID != nil {
		q = q.Where("p.subcategory_id", *filter.SubcategoryID)
	}
	if filter.IsFeatured != nil {
		q = q.Where("p.is_featured", *filter.IsFeatured)
	}
	if filter.IsActive != nil {
		q = q.Where("p.is_active", *filter.IsActive)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.WhereGroup("AND").WhereLike("p.name", pattern).WhereLike("p.description", pattern).End()
	}

	products, err := q.OrderBy("p.name", database.ASC).OrderBy("p.created_at", database.ASC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(products), nil
}

func (s *DBStorage) GetProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return found(s.productQuery().Where("p.id", id).First(ctx))
}

func (s *DBStorage) GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	return found(s.productQuery().Where("p.slug", slug).First(ctx))
}

func (s *DBStorage) CreateProduct(ctx context.Context, product *tables.Product) error {
	ensureID(&product.ID)
	s.stamp(&product.CreatedAt, &product.UpdatedAt)
	return lib.MapDBError(database.Query[tables.Product](s.db).Insert(ctx, product))
}

func (s *DBStorage) UpdateProduct(ctx context.Context, product *tables.Product) error {
	s.stamp(nil, &product.UpdatedAt)
	return affected(database.Query[tables.Product](s.db).Update(ctx, product,
		"name", "slug", "description", "price", "category_id", "subcategory_id", "material",
		"sizes", "size_pricing", "hide_sizes", "colors", "images", "size_chart_id",
		"stock_quantity", "pieces_per_pack", "is_active", "is_featured", "updated_at"))
}

// DeleteProduct removes the product with its cart lines, wishlist entries, collection links and
// reviews. Order items keep their snapshot.
func (s *DBStorage) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.QueryTx[tables.CartItem](tx).Where("product_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		if _, err := database.QueryTx[tables.WishlistItem](tx).Where("product_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		if _, err := database.QueryTx[tables.CollectionProduct](tx).Where("product_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		if _, err := database.QueryTx[tables.Review](tx).Where("product_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		return affected(database.QueryTx[tables.Product](tx).Where("id", id).Delete(ctx))
	})
}

// Collections

func (s *DBStorage) ListCollections(ctx context.Context, activeOnly bool) ([]*tables.Collection, error) {
	q := database.Query[tables.Collection](s.db)
	if activeOnly {
		q = q.Where("col.is_active", true)
	}
	collections, err := q.OrderBy("col.year", database.DESC).OrderBy("col.name", database.ASC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(collections), nil
}

func (s *DBStorage) withCollectionProducts(ctx context.Context, c *tables.Collection, err error) (*tables.Collection, error) {
	c, err = found(c, err)
	if err != nil {
		return nil, err
	}
	if c.Products, err = s.ListCollectionProducts(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *DBStorage) GetCollection(ctx context.Context, id uuid.UUID) (*tables.Collection, error) {
	c, err := database.Query[tables.Collection](s.db).Where("col.id", id).First(ctx)
	return s.withCollectionProducts(ctx, c, err)
}

func (s *DBStorage) GetCollectionBySlug(ctx context.Context, slug string) (*tables.Collection, error) {
	c, err := database.Query[tables.Collection](s.db).Where("col.slug", slug).First(ctx)
	return s.withCollectionProducts(ctx, c, err)
}

func (s *DBStorage) CreateCollection(ctx context.Context, collection *tables.Collection) error {
	ensureID(&collection.ID)
	s.stamp(&collection.CreatedAt, nil)
	return lib.MapDBError(database.Query[tables.Collection](s.db).Insert(ctx, collection))
}

func (s *DBStorage) UpdateCollection(ctx context.Context, collection *tables.Collection) error {
	return affected(database.Query[tables.Collection](s.db).Update(ctx, collection,
		"name", "slug", "description", "image_url", "season", "year", "is_active"))
}

func (s *DBStorage) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.QueryTx[tables.CollectionProduct](tx).Where("collection_id", id).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}
		return affected(database.QueryTx[tables.Collection](tx).Where("id", id).Delete(ctx))
	})
}

func (s *DBStorage) SetCollectionProducts(ctx context.Context, collectionID uuid.UUID, productIDs []uuid.UUID) error {
	ids := make([]uuid.UUID, 0, len(productIDs))
	for _, id := range productIDs {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}

	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		exists, err := database.QueryTx[tables.Collection](tx).Where("col.id", collectionID).Exists(ctx)
		if err != nil {
			return lib.MapDBError(err)
		}
		if !exists {
			return lib.ErrNotFound
		}

		if len(ids) > 0 {
			count, err := database.QueryTx[tables.Product](tx).WhereIn("p.id", ids).Count(ctx)
			if err != nil {
				return lib.MapDBError(err)
			}
			if count != len(ids) {
				return lib.ErrNotFound
			}
		}

		if _, err := database.QueryTx[tables.CollectionProduct](tx).Where("collection_id", collectionID).Delete(ctx); err != nil {
			return lib.MapDBError(err)
		}

		links := make([]*tables.CollectionProduct, 0, len(ids))
		for _, id := range ids {
			links = append(links, &tables.CollectionProduct{CollectionID: collectionID, ProductID: id})
		}
		return lib.MapDBError(database.QueryTx[tables.CollectionProduct](tx).InsertMany(ctx, links))
	})
}

func (s *DBStorage) ListCollectionProducts(ctx context.Context, collectionID uuid.UUID) ([]*tables.Product, error) {
	products, err := s.productQuery().
		WhereRaw("p.id IN (SELECT cp.product_id FROM collection_products AS cp WHERE cp.collection_id = ?)", collectionID).
		OrderBy("p.name", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(products), nil
}

// Size charts

func (s *DBStorage) ListSizeCharts(ctx context.Context) ([]*tables.SizeChart, error) {
	charts, err := database.Query[tables.SizeChart](s.db).OrderBy("sc.name", database.ASC).All(ctx)
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	return pointers(charts), nil
}

func (s *DBStorage) GetSizeChart(ctx context.Context, id uuid.UUID) (*tables.SizeChart, error) {
	return found(database.Query[tables.SizeChart](s.db).Where("sc.id", id).First(ctx))
}

func (s *DBStorage) CreateSizeChart(ctx context.Context, chart *tables.SizeChart) error {
	ensureID(&chart.ID)
	s.stamp(&chart.CreatedAt, &chart.UpdatedAt)
	return lib.MapDBError(database.Query[tables.SizeChart](s.db).Insert(ctx, chart))
}

func (s *DBStorage) UpdateSizeChart(ctx context.Context, chart *tables.SizeChart) error {
	s.stamp(nil, &chart.UpdatedAt)
	return affected(database.Query[tables.SizeChart](s.db).Update(ctx, chart,
		"name", "description", "chart_data", "is_active", "updated_at"))
}

func (s *DBStorage) DeleteSizeChart(ctx context.Context, id uuid.UUID) error {
	return s.db.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := database.QueryTx[tables.Product](tx).Where("size_chart_id", id).
			UpdateSet(ctx, map[string]any{"size_chart_id": nil}); err != nil {
			return lib.MapDBError(err)
		}
		return affected(database.QueryTx[tables.SizeChart](tx).Where("id", id).Delete(ctx))
	})
}
