package structs

import "github.com/google/uuid"

type CategoryRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Slug        string     `json:"slug" validate:"omitempty,max=120"`
	Description string     `json:"description" validate:"max=2000"`
	ImageURL    string     `json:"imageUrl" validate:"max=500"`
	ParentID    *uuid.UUID `json:"parentId"`
	SortOrder   int        `json:"sortOrder"`
	IsActive    *bool      `json:"isActive"`
}

type UpdateCategoryRequest struct {
	Name        *string    `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string    `json:"slug" validate:"omitempty,max=120"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string    `json:"imageUrl" validate:"omitempty,max=500"`
	ParentID    *uuid.UUID `json:"parentId"`
	ClearParent bool       `json:"clearParent"`
	SortOrder   *int       `json:"sortOrder"`
	IsActive    *bool      `json:"isActive"`
}

type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1"`
}

type ProductRequest struct {
	Name          string            `json:"name" validate:"required,min=1,max=200"`
	Slug          string            `json:"slug" validate:"omitempty,max=220"`
	Description   string            `json:"description" validate:"max=5000"`
	Price         uint64            `json:"price" validate:"required,gt=0"`
	CategoryID    *uuid.UUID        `json:"categoryId"`
	SubcategoryID *uuid.UUID        `json:"subcategoryId"`
	Material      string            `json:"material" validate:"max=200"`
	Sizes         []string          `json:"sizes" validate:"dive,min=1,max=20"`
	SizePricing   map[string]uint64 `json:"sizePricing"`
	HideSizes     bool              `json:"hideSizes"`
	Colors        []string          `json:"colors" validate:"dive,min=1,max=50"`
	Images        []string          `json:"images" validate:"dive,min=1,max=500"`
	SizeChartID   *uuid.UUID        `json:"sizeChartId"`
	StockQuantity int               `json:"stockQuantity" validate:"gte=0"`
	PiecesPerPack int               `json:"piecesPerPack" validate:"gte=0"`
	IsActive      *bool             `json:"isActive"`
	IsFeatured    bool              `json:"isFeatured"`
}

// UpdateProductRequest is a partial update; every field present is written in one row update.
type UpdateProductRequest struct {
	Name          *string            `json:"name" validate:"omitempty,min=1,max=200"`
	Slug          *string            `json:"slug" validate:"omitempty,max=220"`
	Description   *string            `json:"description" validate:"omitempty,max=5000"`
	Price         *uint64            `json:"price" validate:"omitempty,gt=0"`
	CategoryID    *uuid.UUID         `json:"categoryId"`
	SubcategoryID *uuid.UUID         `json:"subcategoryId"`
	Material      *string            `json:"material" validate:"omitempty,max=200"`
	Sizes         *[]string          `json:"sizes"`
	SizePricing   *map[string]uint64 `json:"sizePricing"`
	HideSizes     *bool              `json:"hideSizes"`
	Colors        *[]string          `json:"colors"`
	Images        *[]string          `json:"images"`
	SizeChartID   *uuid.UUID         `json:"sizeChartId"`
	StockQuantity *int               `json:"stockQuantity" validate:"omitempty,gte=0"`
	PiecesPerPack *int               `json:"piecesPerPack" validate:"omitempty,gte=0"`
	IsActive      *bool              `json:"isActive"`
	IsFeatured    *bool              `json:"isFeatured"`

	// Clear flags detach an optional relation; a null id alone means unchanged.
	// Clearing the category also clears the subcategory.
	ClearCategory    bool `json:"clearCategory"`
	ClearSubcategory bool `json:"clearSubcategory"`
	ClearSizeChart   bool `json:"clearSizeChart"`
}

type CollectionRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" validate:"omitempty,max=120"`
	Description string `json:"description" validate:"max=2000"`
	ImageURL    string `json:"imageUrl" validate:"max=500"`
	Season      string `json:"season" validate:"max=50"`
	Year        int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	IsActive    *bool  `json:"isActive"`
}

type UpdateCollectionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Slug        *string `json:"slug" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=500"`
	Season      *string `json:"season" validate:"omitempty,max=50"`
	Year        *int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	IsActive    *bool   `json:"isActive"`
}

type CollectionProductsRequest struct {
	ProductIDs []uuid.UUID `json:"productIds" validate:"required"`
}

type SizeChartRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Description string     `json:"description" validate:"max=2000"`
	ChartData   [][]string `json:"chartData" validate:"required,min=1"`
	IsActive    *bool      `json:"isActive"`
}

type UpdateSizeChartRequest struct {
	Name        *string     `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string     `json:"description" validate:"omitempty,max=2000"`
	ChartData   *[][]string `json:"chartData"`
	IsActive    *bool       `json:"isActive"`
}
