package storage

import (
	"context"
	"fmt"
	"modfy_server/lib"
	"modfy_server/structs/tables"

	"github.com/google/uuid"
)

type seedProduct struct {
	name, category, material, description string
	price                                 uint64
	sizes, colors                         []string
	image                                 string
	stock                                 int
	featured                              bool
	collections                           []string
}

var seedCategories = []tables.Category{
	{Name: "Boxer Briefs", Description: "Comfortable and supportive boxer briefs", ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400"},
	{Name: "Briefs", Description: "Classic briefs for everyday comfort", ImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400"},
	{Name: "Trunks", Description: "Modern trunks with sleek design", ImageURL: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=400"},
	{Name: "Performance", Description: "Athletic performance underwear", ImageURL: "https://images.unsplash.com/photo-1562157873-818bc0726f68?w=400"},
	{Name: "Luxury", Description: "Premium luxury innerwear collection", ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=400"},
	{Name: "Thermal", Description: "Temperature-regulating thermal collection", ImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=400"},
}

var seedCollections = []tables.Collection{
	{Name: "Essentials 2024", Description: "Premium basics for everyday comfort", ImageURL: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=600", Season: "All Season", Year: 2024},
	{Name: "Luxury Series", Description: "Premium comfort with luxury materials", ImageURL: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=600", Season: "All Season", Year: 2024},
	{Name: "Winter Warmth", Description: "Thermal comfort for cold seasons", ImageURL: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=600", Season: "Winter", Year: 2024},
}

var seedProducts = []seedProduct{
	{
		name: "Signature Boxer Brief", category: "Boxer Briefs", material: "Premium Cotton", price: 4800,
		description: "Our signature boxer brief with premium comfort and support. Made with the finest materials for all-day comfort.",
		sizes:       []string{"S", "M", "L", "XL", "XXL"}, colors: []string{"Black", "White", "Navy", "Gray"},
		image: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=600", stock: 120, featured: true,
		collections: []string{"Essentials 2024"},
	},
	{
		name: "Essential Brief", category: "Briefs", material: "Organic Cotton", price: 4200,
		description: "Classic brief design with modern comfort technology. Perfect for everyday wear.",
		sizes:       []string{"S", "M", "L", "XL"}, colors: []string{"Black", "White", "Navy"},
		image: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=600", stock: 85, featured: true,
		collections: []string{"Essentials 2024"},
	},
	{
		name: "Performance Trunk", category: "Trunks", material: "Technical Blend", price: 5500,
		description: "Athletic performance trunk with moisture-wicking technology and enhanced support.",
		sizes:       []string{"S", "M", "L", "XL", "XXL"}, colors: []string{"Black", "Navy", "Gray", "White"},
		image: "https://images.unsplash.com/photo-1562157873-818bc0726f68?w=600", stock: 95, featured: true,
	},
	{
		name: "Performance Boxer", category: "Performance", material: "Technical Blend", price: 5200,
		description: "Breathable boxer built for training days with a flat-seam waistband.",
		sizes:       []string{"M", "L", "XL"}, colors: []string{"Black", "Gray"},
		image: "https://images.unsplash.com/photo-1562157873-818bc0726f68?w=600", stock: 60,
	},
	{
		name: "Luxury Silk Boxer", category: "Luxury", material: "Mulberry Silk", price: 8900,
		description: "Pure silk boxer with a relaxed fit and a soft covered waistband.",
		sizes:       []string{"M", "L", "XL"}, colors: []string{"Navy", "Burgundy"},
		image: "https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=600", stock: 25, featured: true,
		collections: []string{"Luxury Series"},
	},
	{
		name: "Luxury Cashmere Boxer", category: "Luxury", material: "Cashmere Blend", price: 12000,
		description: "Cashmere blend boxer for the colder months.",
		sizes:       []string{"M", "L"}, colors: []string{"Charcoal"},
		image: "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=600", stock: 10,
		collections: []string{"Luxury Series", "Winter Warmth"},
	},
	{
		name: "Thermal Insulation Brief", category: "Thermal", material: "Thermal Tech", price: 5800,
		description: "Thermal-regulating briefs designed to maintain optimal body temperature in all conditions.",
		sizes:       []string{"S", "M", "L", "XL"}, colors: []string{"Black", "Gray"},
		image: "https://images.unsplash.com/photo-1500648767791-00dcc994a43e?w=600", stock: 40,
		collections: []string{"Winter Warmth"},
	},
}

var seedSizeChart = tables.SizeChart{
	Name:        "Men's Underwear",
	Description: "Waist measurements in centimetres",
	ChartData: [][]string{
		{"Size", "Waist (cm)", "Hip (cm)"},
		{"S", "71-76", "86-91"},
		{"M", "81-86", "96-101"},
		{"L", "91-97", "106-111"},
		{"XL", "102-107", "116-121"},
		{"XXL", "112-117", "126-131"},
	},
	IsActive: true,
}

// Seed loads the demo catalog. It does nothing when categories already exist.
func Seed(ctx context.Context, store Storage) error {
	existing, err := store.ListCategories(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to check existing catalog: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	categories := make(map[string]*tables.Category, len(seedCategories))
	for i, c := range seedCategories {
		category := c
		category.Slug = lib.Slugify(c.Name)
		category.SortOrder = i
		category.IsActive = true
		if err := store.CreateCategory(ctx, &category); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
		categories[c.Name] = &category
	}

	chart := seedSizeChart
	if err := store.CreateSizeChart(ctx, &chart); err != nil {
		return fmt.Errorf("failed to seed size chart: %w", err)
	}

	collections := make(map[string]*tables.Collection, len(seedCollections))
	for _, c := range seedCollections {
		collection := c
		collection.Slug = lib.Slugify(c.Name)
		collection.IsActive = true
		if err := store.CreateCollection(ctx, &collection); err != nil {
			return fmt.Errorf("failed to seed collection %s: %w", c.Name, err)
		}
		collections[c.Name] = &collection
	}

	links := make(map[string][]*tables.Product)
	for _, p := range seedProducts {
		categoryID := categories[p.category].ID
		chartID := chart.ID
		product := &tables.Product{
			Name:          p.name,
			Slug:          lib.Slugify(p.name),
			Description:   p.description,
			Price:         p.price,
			CategoryID:    &categoryID,
			Material:      p.material,
			Sizes:         p.sizes,
			Colors:        p.colors,
			Images:        []string{p.image},
			SizeChartID:   &chartID,
			StockQuantity: p.stock,
			PiecesPerPack: 1,
			IsActive:      true,
			IsFeatured:    p.featured,
		}
		if err := store.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.name, err)
		}
		for _, name := range p.collections {
			links[name] = append(links[name], product)
		}
	}

	for name, products := range links {
		ids := make([]uuid.UUID, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		if err := store.SetCollectionProducts(ctx, collections[name].ID, ids); err != nil {
			return fmt.Errorf("failed to link collection %s: %w", name, err)
		}
	}

	return nil
}
