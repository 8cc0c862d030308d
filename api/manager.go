package api

import (
	"modfy_server/api/account"
	"modfy_server/api/admin"
	"modfy_server/api/auth"
	"modfy_server/api/cart"
	"modfy_server/api/contact"
	"modfy_server/api/health"
	"modfy_server/api/middleware"
	"modfy_server/api/objects"
	"modfy_server/api/orders"
	"modfy_server/api/products"
	"modfy_server/services"
	"modfy_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	healthRoutes  *health.HealthRoutesManager
	objectRoutes  *objects.ObjectRoutesManager
	authRoutes    *auth.AuthRoutesManager
	productRoutes *products.ProductRoutesManager
	cartRoutes    *cart.CartRoutesManager
	orderRoutes   *orders.OrderRoutesManager
	accountRoutes *account.AccountRoutesManager
	contactRoutes *contact.ContactRoutesManager
	adminRoutes   *admin.AdminRoutesManager
}

func NewRouterManager(logger *gecho.Logger, cfg *structs.Config, sm *services.ServiceManager, mw *middleware.Middleware) *routerManager {
	return &routerManager{
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService),
		objectRoutes:  objects.NewObjectRoutesManager(logger, sm.UploadService, mw),
		authRoutes:    auth.NewAuthRoutesManager(logger, sm.AuthService, sm.SessionService, cfg, mw),
		productRoutes: products.NewProductRoutesManager(logger, sm.CatalogService, sm.ReviewService, mw),
		cartRoutes:    cart.NewCartRoutesManager(logger, sm.CartService, sm.WishlistService, mw),
		orderRoutes:   orders.NewOrderRoutesManager(logger, sm.OrderService, mw),
		accountRoutes: account.NewAccountRoutesManager(logger, sm.AccountService, mw),
		contactRoutes: contact.NewContactRoutesManager(logger, sm.ContactService),
		adminRoutes:   admin.NewAdminRoutesManager(sm, logger, mw),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.objectRoutes.RegisterRoutes(r)

	r.Route("/api", func(r chi.Router) {
		rm.authRoutes.RegisterRoutes(r)
		rm.productRoutes.RegisterRoutes(r)
		rm.cartRoutes.RegisterRoutes(r)
		rm.orderRoutes.RegisterRoutes(r)
		rm.accountRoutes.RegisterRoutes(r)
		rm.contactRoutes.RegisterRoutes(r)
		rm.adminRoutes.RegisterRoutes(r)
	})
}
