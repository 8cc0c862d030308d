package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/tealeg/xlsx"
)

const (
	catalogCachePrefix = "catalog:"
	catalogCacheTTL    = 5 * time.Minute
)

// CategoryNode is a main category with its subcategories.
type CategoryNode struct {
	*tables.Category
	Subcategories []*tables.Category `json:"subcategories"`
}

type CatalogService struct {
	logger *gecho.Logger
	store  storage.Storage
	cache  *CacheService
}

// NewCatalogService builds the catalog service. cache may be nil, which disables list caching.
func NewCatalogService(logger *gecho.Logger, store storage.Storage, cache *CacheService) *CatalogService {
	return &CatalogService{
		logger: logger,
		store:  store,
		cache:  cache,
	}
}

func (cs *CatalogService) invalidate(ctx context.Context) {
	if cs.cache == nil {
		return
	}
	if err := cs.cache.DeletePattern(ctx, catalogCachePrefix+"*"); err != nil {
		cs.logger.Warn("Failed to invalidate catalog cache", gecho.Field("error", err))
	}
}

func cached[T any](ctx context.Context, cs *CatalogService, key string, load func() (T, error)) (T, error) {
	if cs.cache == nil {
		return load()
	}

	hit, err := getJSON[T](ctx, cs.cache, catalogCachePrefix+key)
	if err != nil {
		cs.logger.Warn("Catalog cache read failed", gecho.Field("key", key), gecho.Field("error", err))
	} else if hit != nil {
		CatalogCacheLookups.WithLabelValues("hit").Inc()
		return *hit, nil
	}
	CatalogCacheLookups.WithLabelValues("miss").Inc()

	value, err := load()
	if err != nil {
		return value, err
	}
	if err := setJSON(ctx, cs.cache, catalogCachePrefix+key, value, catalogCacheTTL); err != nil {
		cs.logger.Warn("Catalog cache write failed", gecho.Field("key", key), gecho.Field("error", err))
	}
	return value, nil
}

// Categories

func (cs *CatalogService) ListCategories(ctx context.Context, activeOnly bool) ([]*tables.Category, error) {
	return cached(ctx, cs, "categories:"+strconv.FormatBool(activeOnly), func() ([]*tables.Category, error) {
		return cs.store.ListCategories(ctx, activeOnly)
	})
}

// CategoryTree groups subcategories under their main category, both in sort order.
func (cs *CatalogService) CategoryTree(ctx context.Context, activeOnly bool) ([]*CategoryNode, error) {
	categories, err := cs.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(categories), nil
}

func BuildCategoryTree(categories []*tables.Category) []*CategoryNode {
	nodes := make([]*CategoryNode, 0)
	byID := make(map[uuid.UUID]*CategoryNode)
	for _, c := range categories {
		if c.IsMain() {
			node := &CategoryNode{Category: c, Subcategories: []*tables.Category{}}
			nodes = append(nodes, node)
			byID[c.ID] = node
		}
	}
	for _, c := range categories {
		if c.IsMain() {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Subcategories = append(parent.Subcategories, c)
		}
	}
	return nodes
}

func (cs *CatalogService) GetCategoryBySlug(ctx context.Context, slug string, activeOnly bool) (*tables.Category, error) {
	category, err := cs.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if activeOnly && !category.IsActive {
		return nil, lib.ErrNotFound
	}
	return category, nil
}

// validateParent enforces a depth of two: a parent must be an existing main category and a
// category that has subcategories cannot become one.
func (cs *CatalogService) validateParent(ctx context.Context, self *uuid.UUID, parentID uuid.UUID) error {
	if self != nil && *self == parentID {
		return lib.ErrInvalidParent
	}

	parent, err := cs.store.GetCategory(ctx, parentID)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return lib.ErrInvalidParent
		}
		return err
	}
	if !parent.IsMain() {
		return lib.ErrInvalidParent
	}

	if self != nil {
		all, err := cs.store.ListCategories(ctx, false)
		if err != nil {
			return err
		}
		for _, c := range all {
			if sameParent(c.ParentID, *self) {
				return lib.ErrInvalidParent
			}
		}
	}
	return nil
}

func sameParent(parent *uuid.UUID, id uuid.UUID) bool {
	return parent != nil && *parent == id
}

func slugOrName(slug, name string) string {
	if s := lib.Slugify(slug); s != "" {
		return s
	}
	return lib.Slugify(name)
}

func (cs *CatalogService) CreateCategory(ctx context.Context, req *structs.CategoryRequest) (*tables.Category, error) {
	if req.ParentID != nil {
		if err := cs.validateParent(ctx, nil, *req.ParentID); err != nil {
			return nil, err
		}
	}

	category := &tables.Category{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slugOrName(req.Slug, req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if category.Slug == "" {
		return nil, lib.NewValidationError("slug", "could not be derived from name")
	}

	if err := cs.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	cs.invalidate(ctx)

	cs.logger.Info("Category created", gecho.Field("category_id", category.ID), gecho.Field("slug", category.Slug))
	return category, nil
}

func (cs *CatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req *structs.UpdateCategoryRequest) (*tables.Category, error) {
	category, err := cs.store.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		category.Slug = slugOrName(*req.Slug, category.Name)
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.ImageURL != nil {
		category.ImageURL = *req.ImageURL
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	switch {
	case req.ClearParent:
		category.ParentID = nil
	case req.ParentID != nil:
		if err := cs.validateParent(ctx, &id, *req.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = req.ParentID
	}

	if err := cs.store.UpdateCategory(ctx, category); err != nil {
		return nil, err
	}
	cs.invalidate(ctx)
	return category, nil
}

func (cs *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := cs.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx)
	return nil
}

func (cs *CatalogService) ReorderCategories(ctx context.Context, ids []uuid.UUID) error {
	if err := cs.store.ReorderCategories(ctx, ids); err != nil {
		return err
	}
	cs.invalidate(ctx)
	return nil
}

// Products

func productFilterKey(f storage.ProductFilter) string {
	parts := []string{"products"}
	if f.CategoryID != nil {
		parts = append(parts, "c="+f.CategoryID.String())
	}
	if f.SubcategoryID != nil {
		parts = append(parts, "s="+f.SubcategoryID.String())
	}
	if f.IsFeatured != nil {
		parts = append(parts, "f="+strconv.FormatBool(*f.IsFeatured))
	}
	if f.IsActive != nil {
		parts = append(parts, "a="+strconv.FormatBool(*f.IsActive))
	}
	if f.Search != "" {
		parts = append(parts, "q="+strings.ToLower(f.Search))
	}
	return strings.Join(parts, ":")
}

// ListProducts returns the filtered products. Public listings only ever contain active products.
func (cs *CatalogService) ListProducts(ctx context.Context, filter storage.ProductFilter, public bool) ([]*tables.Product, error) {
	if public {
		active := true
		filter.IsActive = &active
		return cached(ctx, cs, productFilterKey(filter), func() ([]*tables.Product, error) {
			return cs.store.ListProducts(ctx, filter)
		})
	}
	return cs.store.ListProducts(ctx, filter)
}

// GetProduct resolves a product by uuid or slug.
func (cs *CatalogService) GetProduct(ctx context.Context, idOrSlug string, public bool) (*tables.Product, error) {
	var (
		product *tables.Product
		err     error
	)
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = cs.store.GetProduct(ctx, id)
	} else {
		product, err = cs.store.GetProductBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}
	if public && !product.IsActive {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

// uniqueProductSlug appends -2, -3... to base until no other product uses it.
func (cs *CatalogService) uniqueProductSlug(ctx context.Context, base string, self uuid.UUID) (string, error) {
	slug := base
	for i := 2; ; i++ {
		existing, err := cs.store.GetProductBySlug(ctx, slug)
		if errors.Is(err, lib.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == self {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

// validateProduct checks the references and the size pricing of a product about to be written.
func (cs *CatalogService) validateProduct(ctx context.Context, p *tables.Product) error {
	if p.CategoryID != nil {
		category, err := cs.store.GetCategory(ctx, *p.CategoryID)
		if errors.Is(err, lib.ErrNotFound) {
			return lib.NewValidationError("categoryId", "does not exist")
		}
		if err != nil {
			return err
		}
		if !category.IsMain() {
			return lib.NewValidationError("categoryId", "must be a main category")
		}
	}

	if p.SubcategoryID != nil {
		sub, err := cs.store.GetCategory(ctx, *p.SubcategoryID)
		if errors.Is(err, lib.ErrNotFound) {
			return lib.NewValidationError("subcategoryId", "does not exist")
		}
		if err != nil {
			return err
		}
		if p.CategoryID == nil || !sameParent(sub.ParentID, *p.CategoryID) {
			return lib.NewValidationError("subcategoryId", "must belong to the selected category")
		}
	}

	if p.SizeChartID != nil {
		if _, err := cs.store.GetSizeChart(ctx, *p.SizeChartID); err != nil {
			if errors.Is(err, lib.ErrNotFound) {
				return lib.NewValidationError("sizeChartId", "does not exist")
			}
			return err
		}
	}

	for size := range p.SizePricing {
		if !slices.Contains(p.Sizes, size) {
			return lib.NewValidationError("sizePricing", "size "+size+" is not offered")
		}
	}
	return nil
}

func (cs *CatalogService) CreateProduct(ctx context.Context, req *structs.ProductRequest) (*tables.Product, error) {
	product := &tables.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Material:      req.Material,
		Sizes:         req.Sizes,
		SizePricing:   req.SizePricing,
		HideSizes:     req.HideSizes,
		Colors:        req.Colors,
		Images:        req.Images,
		SizeChartID:   req.SizeChartID,
		StockQuantity: req.StockQuantity,
		PiecesPerPack: req.PiecesPerPack,
		IsActive:      req.IsActive == nil || *req.IsActive,
		IsFeatured:    req.IsFeatured,
	}
	if product.PiecesPerPack == 0 {
		product.PiecesPerPack = 1
	}

	if err := cs.validateProduct(ctx, product); err != nil {
		return nil, err
	}

	if req.Slug != "" {
		product.Slug = lib.Slugify(req.Slug)
	} else {
		slug, err := cs.uniqueProductSlug(ctx, lib.Slugify(product.Name), uuid.Nil)
		if err != nil {
			return nil, err
		}
		product.Slug = slug
	}
	if product.Slug == "" {
		return nil, lib.NewValidationError("slug", "could not be derived from name")
	}

	if err := cs.store.CreateProduct(ctx, product); err != nil {
		return nil, err
	}
	cs.invalidate(ctx)

	cs.logger.Info("Product created", gecho.Field("product_id", product.ID), gecho.Field("slug", product.Slug))
	return cs.store.GetProduct(ctx, product.ID)
}

// applyProductRelations sets or clears category, subcategory and size chart. Moving a product to
// another category without naming a subcategory drops the old subcategory.
func applyProductRelations(product *tables.Product, req *structs.UpdateProductRequest) {
	switch {
	case req.ClearCategory:
		product.CategoryID, product.Category = nil, nil
		product.SubcategoryID, product.Subcategory = nil, nil
	case req.CategoryID != nil:
		moved := product.CategoryID == nil || *product.CategoryID != *req.CategoryID
		product.CategoryID = req.CategoryID
		if moved && req.SubcategoryID == nil {
			product.SubcategoryID, product.Subcategory = nil, nil
		}
	}

	switch {
	case req.ClearSubcategory:
		product.SubcategoryID, product.Subcategory = nil, nil
	case req.SubcategoryID != nil && !req.ClearCategory:
		product.SubcategoryID = req.SubcategoryID
	}

	switch {
	case req.ClearSizeChart:
		product.SizeChartID = nil
	case req.SizeChartID != nil:
		product.SizeChartID = req.SizeChartID
	}
}

// UpdateProduct applies the present fields and writes the whole row at once.
func (cs *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.UpdateProductRequest) (*tables.Product, error) {
	product, err := cs.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		product.Slug = slugOrName(*req.Slug, product.Name)
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	applyProductRelations(product, req)
	if req.Material != nil {
		product.Material = *req.Material
	}
	if req.Sizes != nil {
		product.Sizes = *req.Sizes
	}
	if req.SizePricing != nil {
		product.SizePricing = *req.SizePricing
	}
	if req.HideSizes != nil {
		product.HideSizes = *req.HideSizes
	}
	if req.Colors != nil {
		product.Colors = *req.Colors
	}
	if req.Images != nil {
		product.Images = *req.Images
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.PiecesPerPack != nil {
		product.PiecesPerPack = *req.PiecesPerPack
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		product.IsFeatured = *req.IsFeatured
	}

	if err := cs.validateProduct(ctx, product); err != nil {
		return nil, err
	}

	if err := cs.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	cs.invalidate(ctx)
	return cs.store.GetProduct(ctx, id)
}

// NextStatus returns the fields a product takes on the next step of the display status cycle:
// active, out of stock, inactive and back to active.
func NextStatus(p *tables.Product) (isActive bool, stock int) {
	switch p.Status() {
	case tables.ProductStatusActive:
		return true, 0
	case tables.ProductStatusOutOfStock:
		return false, 0
	default:
		return true, max(1, p.StockQuantity)
	}
}

func (cs *CatalogService) CycleProductStatus(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	product, err := cs.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	from := product.Status()
	product.IsActive, product.StockQuantity = NextStatus(product)

	if err := cs.store.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}
	cs.invalidate(ctx)

	cs.logger.Info("Product status cycled",
		gecho.Field("product_id", id),
		gecho.Field("from", from),
		gecho.Field("to", product.Status()))
	return cs.store.GetProduct(ctx, id)
}

func (cs *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := cs.store.DeleteProduct(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx)
	return nil
}

// ExportProducts writes every product as an xlsx workbook.
func (cs *CatalogService) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := cs.store.ListProducts(ctx, storage.ProductFilter{})
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := []string{
		"ID", "Name", "Slug", "Category", "Subcategory", "Price", "Material", "Sizes",
		"Colors", "Stock", "Pieces Per Pack", "Status", "Featured", "CreatedAt", "UpdatedAt",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		var category, subcategory string
		if p.Category != nil {
			category = p.Category.Name
		}
		if p.Subcategory != nil {
			subcategory = p.Subcategory.Name
		}

		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID.String())
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Slug)
		row.AddCell().SetValue(category)
		row.AddCell().SetValue(subcategory)
		row.AddCell().SetValue(float64(p.Price) / 100)
		row.AddCell().SetValue(p.Material)
		row.AddCell().SetValue(strings.Join(p.Sizes, ","))
		row.AddCell().SetValue(strings.Join(p.Colors, ","))
		row.AddCell().SetValue(p.StockQuantity)
		row.AddCell().SetValue(p.PiecesPerPack)
		row.AddCell().SetValue(string(p.Status()))
		row.AddCell().SetValue(strconv.FormatBool(p.IsFeatured))
		row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetValue(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	return file.Write(w)
}

// Collections

func (cs *CatalogService) ListCollections(ctx context.Context, activeOnly bool) ([]*tables.Collection, error) {
	return cs.store.ListCollections(ctx, activeOnly)
}

// GetCollectionBySlug returns the collection with its products. Public reads hide inactive
// collections and products.
func (cs *CatalogService) GetCollectionBySlug(ctx context.Context, slug string, public bool) (*tables.Collection, error) {
	collection, err := cs.store.GetCollectionBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !public {
		return collection, nil
	}
	if !collection.IsActive {
		return nil, lib.ErrNotFound
	}
	collection.Products = slices.DeleteFunc(collection.Products, func(p *tables.Product) bool {
		return !p.IsActive
	})
	return collection, nil
}

func (cs *CatalogService) CreateCollection(ctx context.Context, req *structs.CollectionRequest) (*tables.Collection, error) {
	collection := &tables.Collection{
		Name:        strings.TrimSpace(req.Name),
		Slug:        slugOrName(req.Slug, req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Season:      req.Season,
		Year:        req.Year,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if collection.Year == 0 {
		collection.Year = time.Now().Year()
	}

	if err := cs.store.CreateCollection(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (cs *CatalogService) UpdateCollection(ctx context.Context, id uuid.UUID, req *structs.UpdateCollectionRequest) (*tables.Collection, error) {
	collection, err := cs.store.GetCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		collection.Name = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		collection.Slug = slugOrName(*req.Slug, collection.Name)
	}
	if req.Description != nil {
		collection.Description = *req.Description
	}
	if req.ImageURL != nil {
		collection.ImageURL = *req.ImageURL
	}
	if req.Season != nil {
		collection.Season = *req.Season
	}
	if req.Year != nil {
		collection.Year = *req.Year
	}
	if req.IsActive != nil {
		collection.IsActive = *req.IsActive
	}

	if err := cs.store.UpdateCollection(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

func (cs *CatalogService) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	return cs.store.DeleteCollection(ctx, id)
}

func (cs *CatalogService) SetCollectionProducts(ctx context.Context, id uuid.UUID, productIDs []uuid.UUID) (*tables.Collection, error) {
	if err := cs.store.SetCollectionProducts(ctx, id, productIDs); err != nil {
		return nil, err
	}
	return cs.store.GetCollection(ctx, id)
}

// Size charts

func (cs *CatalogService) ListSizeCharts(ctx context.Context, activeOnly bool) ([]*tables.SizeChart, error) {
	charts, err := cs.store.ListSizeCharts(ctx)
	if err != nil {
		return nil, err
	}
	if activeOnly {
		charts = slices.DeleteFunc(charts, func(c *tables.SizeChart) bool { return !c.IsActive })
	}
	return charts, nil
}

func (cs *CatalogService) GetSizeChart(ctx context.Context, id uuid.UUID, activeOnly bool) (*tables.SizeChart, error) {
	chart, err := cs.store.GetSizeChart(ctx, id)
	if err != nil {
		return nil, err
	}
	if activeOnly && !chart.IsActive {
		return nil, lib.ErrNotFound
	}
	return chart, nil
}

func validateChartData(data [][]string) error {
	if len(data) == 0 || len(data[0]) == 0 {
		return lib.NewValidationError("chartData", "must contain a header row")
	}
	width := len(data[0])
	for _, row := range data[1:] {
		if len(row) != width {
			return lib.NewValidationError("chartData", "rows must have as many cells as the header")
		}
	}
	return nil
}

func (cs *CatalogService) CreateSizeChart(ctx context.Context, req *structs.SizeChartRequest) (*tables.SizeChart, error) {
	if err := validateChartData(req.ChartData); err != nil {
		return nil, err
	}

	chart := &tables.SizeChart{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ChartData:   req.ChartData,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := cs.store.CreateSizeChart(ctx, chart); err != nil {
		return nil, err
	}
	return chart, nil
}

func (cs *CatalogService) UpdateSizeChart(ctx context.Context, id uuid.UUID, req *structs.UpdateSizeChartRequest) (*tables.SizeChart, error) {
	chart, err := cs.store.GetSizeChart(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		chart.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		chart.Description = *req.Description
	}
	if req.ChartData != nil {
		if err := validateChartData(*req.ChartData); err != nil {
			return nil, err
		}
		chart.ChartData = *req.ChartData
	}
	if req.IsActive != nil {
		chart.IsActive = *req.IsActive
	}

	if err := cs.store.UpdateSizeChart(ctx, chart); err != nil {
		return nil, err
	}
	return chart, nil
}

func (cs *CatalogService) DeleteSizeChart(ctx context.Context, id uuid.UUID) error {
	if err := cs.store.DeleteSizeChart(ctx, id); err != nil {
		return err
	}
	cs.invalidate(ctx)
	return nil
}
