package cart

import (
	"modfy_server/api/middleware"
	"modfy_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CartRoutesManager struct {
	logger          *gecho.Logger
	cartService     *services.CartService
	wishlistService *services.WishlistService
	mw              *middleware.Middleware
}

func NewCartRoutesManager(logger *gecho.Logger, cartService *services.CartService, wishlistService *services.WishlistService, mw *middleware.Middleware) *CartRoutesManager {
	return &CartRoutesManager{
		logger:          logger,
		cartService:     cartService,
		wishlistService: wishlistService,
		mw:              mw,
	}
}

func (crm *CartRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(crm.mw.EnsureSession)
		r.Get("/", crm.GetCart)
		r.Post("/", crm.AddToCart)
		r.Delete("/", crm.ClearCart)
		r.Delete("/clear", crm.ClearCart)
		r.Put("/{id}", crm.UpdateCartItem)
		r.Delete("/{id}", crm.RemoveCartItem)
	})

	r.Route("/wishlist", func(r chi.Router) {
		r.Use(crm.mw.RequireUser)
		r.Get("/", crm.GetWishlist)
		r.Post("/", crm.AddToWishlist)
		r.Delete("/{productId}", crm.RemoveFromWishlist)
	})
}
