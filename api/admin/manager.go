package admin

import (
	"modfy_server/api/middleware"
	"modfy_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger         *gecho.Logger
	catalogService *services.CatalogService
	orderService   *services.OrderService
	accountService *services.AccountService
	contactService *services.ContactService
	uploadService  *services.UploadService
	statsService   *services.StatsService
	mw             *middleware.Middleware
}

func NewAdminRoutesManager(sm *services.ServiceManager, logger *gecho.Logger, mw *middleware.Middleware) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:         logger,
		catalogService: sm.CatalogService,
		orderService:   sm.OrderService,
		accountService: sm.AccountService,
		contactService: sm.ContactService,
		uploadService:  sm.UploadService,
		statsService:   sm.StatsService,
		mw:             mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.RequireAdmin)

		r.Get("/stats", ar.GetStats)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", ar.ListCategories)
			r.Post("/", ar.CreateCategory)
			r.Put("/reorder", ar.ReorderCategories)
			r.Patch("/{id}", ar.UpdateCategory)
			r.Delete("/{id}", ar.DeleteCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", ar.ListProducts)
			r.Post("/", ar.CreateProduct)
			r.Get("/export", ar.ExportProducts)
			r.Patch("/{id}", ar.UpdateProduct)
			r.Post("/{id}/cycle-status", ar.CycleProductStatus)
			r.Delete("/{id}", ar.DeleteProduct)
		})

		r.Route("/collections", func(r chi.Router) {
			r.Get("/", ar.ListCollections)
			r.Post("/", ar.CreateCollection)
			r.Patch("/{id}", ar.UpdateCollection)
			r.Put("/{id}/products", ar.SetCollectionProducts)
			r.Delete("/{id}", ar.DeleteCollection)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ar.ListOrders)
			r.Get("/{id}", ar.GetOrderDetails)
			r.Patch("/{id}/status", ar.UpdateOrderStatus)
			r.Patch("/{id}/payment-status", ar.UpdatePaymentStatus)
			r.Delete("/{id}", ar.DeleteOrder)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", ar.ListUsers)
			r.Post("/", ar.CreateUser)
			r.Patch("/{id}", ar.UpdateUser)
			r.Delete("/{id}", ar.DeleteUser)
		})

		r.Route("/size-charts", func(r chi.Router) {
			r.Get("/", ar.ListSizeCharts)
			r.Post("/", ar.CreateSizeChart)
			r.Patch("/{id}", ar.UpdateSizeChart)
			r.Delete("/{id}", ar.DeleteSizeChart)
		})

		r.Route("/contact-messages", func(r chi.Router) {
			r.Get("/", ar.ListContactMessages)
			r.Patch("/{id}", ar.UpdateContactMessage)
			r.Delete("/{id}", ar.DeleteContactMessage)
		})
		r.Get("/contact-settings", ar.GetContactSettings)
		r.Put("/contact-settings", ar.SaveContactSettings)

		r.Post("/upload-product-image", ar.UploadProductImage)
		r.Post("/upload-category-image", ar.UploadCategoryImage)
		r.Post("/objects/upload", ar.IssueUploadURL)
		r.Put("/objects/uploads/{objectId}", ar.PutObject)
	})
}
