package storage

import (
	"cmp"
	"context"
	"maps"
	"modfy_server/lib"
	"modfy_server/structs/tables"
	"slices"
	"strings"

	"github.com/google/uuid"
)

func cloneCategory(c *tables.Category) *tables.Category {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ParentID != nil {
		id := *c.ParentID
		cp.ParentID = &id
	}
	return &cp
}

func cloneProduct(p *tables.Product) *tables.Product {
	cp := *p
	cp.Sizes = slices.Clone(p.Sizes)
	cp.Colors = slices.Clone(p.Colors)
	cp.Images = slices.Clone(p.Images)
	cp.SizePricing = maps.Clone(p.SizePricing)
	cp.Category = nil
	cp.Subcategory = nil
	return &cp
}

// withRelations returns a copy of p with category and subcategory embedded. Caller holds the lock.
func (m *MemStorage) withRelations(p *tables.Product) *tables.Product {
	cp := cloneProduct(p)
	if p.CategoryID != nil {
		cp.Category = cloneCategory(m.categories[*p.CategoryID])
	}
	if p.SubcategoryID != nil {
		cp.Subcategory = cloneCategory(m.categories[*p.SubcategoryID])
	}
	return cp
}

func sameID(a *uuid.UUID, b uuid.UUID) bool {
	return a != nil && *a == b
}

// Categories

func (m *MemStorage) ListCategories(ctx context.Context, activeOnly bool) ([]*tables.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.Category, 0, len(m.categories))
	for _, c := range m.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, cloneCategory(c))
	}
	slices.SortFunc(out, func(a, b *tables.Category) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (m *MemStorage) GetCategory(ctx context.Context, id uuid.UUID) (*tables.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return cloneCategory(c), nil
}

func (m *MemStorage) GetCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.categories {
		if c.Slug == slug {
			return cloneCategory(c), nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *MemStorage) categorySlugTaken(slug string, except uuid.UUID) bool {
	for _, c := range m.categories {
		if c.Slug == slug && c.ID != except {
			return true
		}
	}
	return false
}

func (m *MemStorage) CreateCategory(ctx context.Context, category *tables.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.categorySlugTaken(category.Slug, uuid.Nil) {
		return lib.ErrConflict
	}
	ensureID(&category.ID)
	m.stamp(&category.CreatedAt, nil)

	m.categories[category.ID] = cloneCategory(category)
	return nil
}

func (m *MemStorage) UpdateCategory(ctx context.Context, category *tables.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.categories[category.ID]
	if !ok {
		return lib.ErrNotFound
	}
	if m.categorySlugTaken(category.Slug, category.ID) {
		return lib.ErrConflict
	}
	category.CreatedAt = existing.CreatedAt

	m.categories[category.ID] = cloneCategory(category)
	return nil
}

func (m *MemStorage) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[id]; !ok {
		return lib.ErrNotFound
	}

	removed := []uuid.UUID{id}
	for cid, c := range m.categories {
		if sameID(c.ParentID, id) {
			removed = append(removed, cid)
		}
	}

	for _, p := range m.products {
		for _, cid := range removed {
			if sameID(p.CategoryID, cid) {
				p.CategoryID = nil
			}
			if sameID(p.SubcategoryID, cid) {
				p.SubcategoryID = nil
			}
		}
	}
	for _, cid := range removed {
		delete(m.categories, cid)
	}
	return nil
}

func (m *MemStorage) ReorderCategories(ctx context.Context, ids []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		if _, ok := m.categories[id]; !ok {
			return lib.ErrNotFound
		}
	}
	for i, id := range ids {
		m.categories[id].SortOrder = i
	}
	return nil
}

// Products

func (f ProductFilter) matches(p *tables.Product) bool {
	if f.CategoryID != nil && !sameID(p.CategoryID, *f.CategoryID) {
		return false
	}
	if f.SubcategoryID != nil && !sameID(p.SubcategoryID, *f.SubcategoryID) {
		return false
	}
	if f.IsFeatured != nil && p.IsFeatured != *f.IsFeatured {
		return false
	}
	if f.IsActive != nil && p.IsActive != *f.IsActive {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), term) && !strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	return true
}

func (m *MemStorage) ListProducts(ctx context.Context, filter ProductFilter) ([]*tables.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.Product, 0, len(m.products))
	for _, p := range m.products {
		if filter.matches(p) {
			out = append(out, m.withRelations(p))
		}
	}
	slices.SortFunc(out, func(a, b *tables.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), a.CreatedAt.Compare(b.CreatedAt))
	})
	return out, nil
}

func (m *MemStorage) GetProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return m.withRelations(p), nil
}

func (m *MemStorage) GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.products {
		if p.Slug == slug {
			return m.withRelations(p), nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *MemStorage) productSlugTaken(slug string, except uuid.UUID) bool {
	for _, p := range m.products {
		if p.Slug == slug && p.ID != except {
			return true
		}
	}
	return false
}

func (m *MemStorage) CreateProduct(ctx context.Context, product *tables.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.productSlugTaken(product.Slug, uuid.Nil) {
		return lib.ErrConflict
	}
	ensureID(&product.ID)
	m.stamp(&product.CreatedAt, &product.UpdatedAt)

	m.products[product.ID] = cloneProduct(product)
	return nil
}

func (m *MemStorage) UpdateProduct(ctx context.Context, product *tables.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[product.ID]
	if !ok {
		return lib.ErrNotFound
	}
	if m.productSlugTaken(product.Slug, product.ID) {
		return lib.ErrConflict
	}
	product.CreatedAt = existing.CreatedAt
	m.stamp(nil, &product.UpdatedAt)

	m.products[product.ID] = cloneProduct(product)
	return nil
}

func (m *MemStorage) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.products, id)

	for itemID, item := range m.cartItems {
		if item.ProductID == id {
			delete(m.cartItems, itemID)
		}
	}
	for itemID, item := range m.wishlist {
		if item.ProductID == id {
			delete(m.wishlist, itemID)
		}
	}
	for reviewID, r := range m.reviews {
		if r.ProductID == id {
			delete(m.reviews, reviewID)
		}
	}
	for cid, pids := range m.collectionLinks {
		m.collectionLinks[cid] = slices.DeleteFunc(pids, func(pid uuid.UUID) bool { return pid == id })
	}
	return nil
}

// Collections

func cloneCollection(c *tables.Collection) *tables.Collection {
	cp := *c
	cp.Products = nil
	return &cp
}

func (m *MemStorage) ListCollections(ctx context.Context, activeOnly bool) ([]*tables.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.Collection, 0, len(m.collections))
	for _, c := range m.collections {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, cloneCollection(c))
	}
	slices.SortFunc(out, func(a, b *tables.Collection) int {
		return cmp.Or(cmp.Compare(b.Year, a.Year), cmp.Compare(a.Name, b.Name))
	})
	return out, nil
}

func (m *MemStorage) collectionWithProducts(c *tables.Collection) *tables.Collection {
	cp := cloneCollection(c)
	cp.Products = m.collectionProducts(c.ID)
	return cp
}

func (m *MemStorage) collectionProducts(id uuid.UUID) []*tables.Product {
	var out []*tables.Product
	for _, pid := range m.collectionLinks[id] {
		if p, ok := m.products[pid]; ok {
			out = append(out, m.withRelations(p))
		}
	}
	return out
}

func (m *MemStorage) GetCollection(ctx context.Context, id uuid.UUID) (*tables.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return m.collectionWithProducts(c), nil
}

func (m *MemStorage) GetCollectionBySlug(ctx context.Context, slug string) (*tables.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.collections {
		if c.Slug == slug {
			return m.collectionWithProducts(c), nil
		}
	}
	return nil, lib.ErrNotFound
}

func (m *MemStorage) CreateCollection(ctx context.Context, collection *tables.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.collections {
		if c.Slug == collection.Slug {
			return lib.ErrConflict
		}
	}
	ensureID(&collection.ID)
	m.stamp(&collection.CreatedAt, nil)

	m.collections[collection.ID] = cloneCollection(collection)
	return nil
}

func (m *MemStorage) UpdateCollection(ctx context.Context, collection *tables.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[collection.ID]
	if !ok {
		return lib.ErrNotFound
	}
	for _, c := range m.collections {
		if c.Slug == collection.Slug && c.ID != collection.ID {
			return lib.ErrConflict
		}
	}
	collection.CreatedAt = existing.CreatedAt

	m.collections[collection.ID] = cloneCollection(collection)
	return nil
}

func (m *MemStorage) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.collections, id)
	delete(m.collectionLinks, id)
	return nil
}

func (m *MemStorage) SetCollectionProducts(ctx context.Context, collectionID uuid.UUID, productIDs []uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collectionID]; !ok {
		return lib.ErrNotFound
	}
	ids := make([]uuid.UUID, 0, len(productIDs))
	for _, pid := range productIDs {
		if _, ok := m.products[pid]; !ok {
			return lib.ErrNotFound
		}
		if !slices.Contains(ids, pid) {
			ids = append(ids, pid)
		}
	}
	m.collectionLinks[collectionID] = ids
	return nil
}

func (m *MemStorage) ListCollectionProducts(ctx context.Context, collectionID uuid.UUID) ([]*tables.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.collections[collectionID]; !ok {
		return nil, lib.ErrNotFound
	}
	return m.collectionProducts(collectionID), nil
}

// Size charts

func cloneSizeChart(c *tables.SizeChart) *tables.SizeChart {
	cp := *c
	cp.ChartData = make([][]string, len(c.ChartData))
	for i, row := range c.ChartData {
		cp.ChartData[i] = slices.Clone(row)
	}
	return &cp
}

func (m *MemStorage) ListSizeCharts(ctx context.Context) ([]*tables.SizeChart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.SizeChart, 0, len(m.sizeCharts))
	for _, c := range m.sizeCharts {
		out = append(out, cloneSizeChart(c))
	}
	slices.SortFunc(out, func(a, b *tables.SizeChart) int { return cmp.Compare(a.Name, b.Name) })
	return out, nil
}

func (m *MemStorage) GetSizeChart(ctx context.Context, id uuid.UUID) (*tables.SizeChart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.sizeCharts[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	return cloneSizeChart(c), nil
}

func (m *MemStorage) CreateSizeChart(ctx context.Context, chart *tables.SizeChart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&chart.ID)
	m.stamp(&chart.CreatedAt, &chart.UpdatedAt)
	m.sizeCharts[chart.ID] = cloneSizeChart(chart)
	return nil
}

func (m *MemStorage) UpdateSizeChart(ctx context.Context, chart *tables.SizeChart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.sizeCharts[chart.ID]
	if !ok {
		return lib.ErrNotFound
	}
	chart.CreatedAt = existing.CreatedAt
	m.stamp(nil, &chart.UpdatedAt)
	m.sizeCharts[chart.ID] = cloneSizeChart(chart)
	return nil
}

func (m *MemStorage) DeleteSizeChart(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sizeCharts[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.sizeCharts, id)
	for _, p := range m.products {
		if sameID(p.SizeChartID, id) {
			p.SizeChartID = nil
		}
	}
	return nil
}
