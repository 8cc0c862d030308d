package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Category is a main category when ParentID is nil, a subcategory otherwise.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`
	ID            uuid.UUID  `bun:"id,pk,type:varchar(36)" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Slug          string     `bun:"slug,unique,notnull" json:"slug"`
	Description   string     `bun:"description,type:text" json:"description"`
	ImageURL      string     `bun:"image_url" json:"imageUrl"`
	ParentID      *uuid.UUID `bun:"parent_id,type:varchar(36)" json:"parentId"`
	SortOrder     int        `bun:"sort_order,notnull,default:0" json:"sortOrder"`
	IsActive      bool       `bun:"is_active,notnull" json:"isActive"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

func (c *Category) IsMain() bool {
	return c.ParentID == nil
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`
	ID            uuid.UUID         `bun:"id,pk,type:varchar(36)" json:"id"`
	Name          string            `bun:"name,notnull" json:"name"`
	Slug          string            `bun:"slug,unique,notnull" json:"slug"`
	Description   string            `bun:"description,type:text" json:"description"`
	Price         uint64            `bun:"price,notnull" json:"price"` // stored in cents
	CategoryID    *uuid.UUID        `bun:"category_id,type:varchar(36)" json:"categoryId"`
	SubcategoryID *uuid.UUID        `bun:"subcategory_id,type:varchar(36)" json:"subcategoryId"`
	Material      string            `bun:"material" json:"material"`
	Sizes         []string          `bun:"sizes,type:json" json:"sizes"`
	SizePricing   map[string]uint64 `bun:"size_pricing,type:json" json:"sizePricing"` // size -> cents
	HideSizes     bool              `bun:"hide_sizes,notnull,default:false" json:"hideSizes"`
	Colors        []string          `bun:"colors,type:json" json:"colors"`
	Images        []string          `bun:"images,type:json" json:"images"`
	SizeChartID   *uuid.UUID        `bun:"size_chart_id,type:varchar(36)" json:"sizeChartId"`
	StockQuantity int               `bun:"stock_quantity,notnull,default:0" json:"stockQuantity"`
	PiecesPerPack int               `bun:"pieces_per_pack,notnull,default:1" json:"piecesPerPack"`
	IsActive      bool              `bun:"is_active,notnull" json:"isActive"`
	IsFeatured    bool              `bun:"is_featured,notnull,default:false" json:"isFeatured"`
	CreatedAt     time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time         `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Category    *Category `bun:"rel:belongs-to,join:category_id=id" json:"category,omitempty"`
	Subcategory *Category `bun:"rel:belongs-to,join:subcategory_id=id" json:"subcategory,omitempty"`
}

// UnitPrice returns the size override when one is set, the base price otherwise.
func (p *Product) UnitPrice(size string) uint64 {
	if price, ok := p.SizePricing[size]; ok && price > 0 {
		return price
	}
	return p.Price
}

func (p *Product) OffersSize(size string) bool {
	if len(p.Sizes) == 0 || p.HideSizes {
		return true
	}
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
	ProductStatusInactive   ProductStatus = "inactive"
)

func (p *Product) Status() ProductStatus {
	switch {
	case !p.IsActive:
		return ProductStatusInactive
	case p.StockQuantity <= 0:
		return ProductStatusOutOfStock
	default:
		return ProductStatusActive
	}
}

type Collection struct {
	bun.BaseModel `bun:"table:collections,alias:col"`
	ID            uuid.UUID  `bun:"id,pk,type:varchar(36)" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Slug          string     `bun:"slug,unique,notnull" json:"slug"`
	Description   string     `bun:"description,type:text" json:"description"`
	ImageURL      string     `bun:"image_url" json:"imageUrl"`
	Season        string     `bun:"season" json:"season"`
	Year          int        `bun:"year" json:"year"`
	IsActive      bool       `bun:"is_active,notnull" json:"isActive"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	Products      []*Product `bun:"m2m:collection_products,join:Collection=Product" json:"products,omitempty"`
}

type CollectionProduct struct {
	bun.BaseModel `bun:"table:collection_products,alias:cp"`
	CollectionID  uuid.UUID   `bun:"collection_id,pk,type:varchar(36)"`
	Collection    *Collection `bun:"rel:belongs-to,join:collection_id=id"`
	ProductID     uuid.UUID   `bun:"product_id,pk,type:varchar(36)"`
	Product       *Product    `bun:"rel:belongs-to,join:product_id=id"`
}

type SizeChart struct {
	bun.BaseModel `bun:"table:size_charts,alias:sc"`
	ID            uuid.UUID  `bun:"id,pk,type:varchar(36)" json:"id"`
	Name          string     `bun:"name,notnull" json:"name"`
	Description   string     `bun:"description,type:text" json:"description"`
	ChartData     [][]string `bun:"chart_data,type:json" json:"chartData"` // first row is the header
	IsActive      bool       `bun:"is_active,notnull" json:"isActive"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
