// Package products serves the public catalog: categories, products, collections, size charts
// and product reviews.
package products

import (
	"modfy_server/api/middleware"
	"modfy_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	catalogService *services.CatalogService
	reviewService  *services.ReviewService
	mw             *middleware.Middleware
}

func NewProductRoutesManager(logger *gecho.Logger, catalogService *services.CatalogService, reviewService *services.ReviewService, mw *middleware.Middleware) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		catalogService: catalogService,
		reviewService:  reviewService,
		mw:             mw,
	}
}

func (p *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/categories", p.FetchCategories)
	r.Get("/categories/{slug}", p.FetchCategoryBySlug)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", p.FetchAllProducts)
		r.Get("/{id}", p.FetchProduct)
		r.Get("/{id}/reviews", p.FetchReviews)

		r.Group(func(r chi.Router) {
			r.Use(p.mw.EnsureSession)
			r.Post("/{id}/reviews", p.CreateReview)
			r.Delete("/{id}/reviews/{reviewId}", p.DeleteReview)
		})
	})
	r.Get("/reviews/random", p.FetchRandomReviews)

	r.Get("/collections", p.FetchCollections)
	r.Get("/collections/{slug}", p.FetchCollectionBySlug)

	r.Get("/size-charts", p.FetchSizeCharts)
	r.Get("/size-charts/{id}", p.FetchSizeChart)
}
