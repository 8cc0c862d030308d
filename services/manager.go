package services

import (
	"modfy_server/storage"
	"modfy_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService     *AuthService
	SessionService  *SessionService
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	CatalogService  *CatalogService
	CartService     *CartService
	WishlistService *WishlistService
	OrderService    *OrderService
	AccountService  *AccountService
	ReviewService   *ReviewService
	ContactService  *ContactService
	UploadService   *UploadService
	StatsService    *StatsService
}

// NewServiceManager wires every service on top of one storage. cache may be nil, in which case
// catalog caching and rate limiting are off.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, store storage.Storage, cache *CacheService, sessions SessionStore) *ServiceManager {
	emailService := NewEmailService(logger, cfg)
	authService := NewAuthService(cfg, logger, store, emailService)
	sessionService := NewSessionService(logger, cfg, sessions)

	return &ServiceManager{
		AuthService:     authService,
		SessionService:  sessionService,
		EmailService:    emailService,
		CacheService:    cache,
		HealthService:   NewHealthService(logger, store, cache),
		CatalogService:  NewCatalogService(logger, store, cache),
		CartService:     NewCartService(logger, cfg, store),
		WishlistService: NewWishlistService(logger, store),
		OrderService:    NewOrderService(logger, cfg, store, emailService),
		AccountService:  NewAccountService(logger, store, authService, sessionService),
		ReviewService:   NewReviewService(logger, store),
		ContactService:  NewContactService(logger, store, emailService),
		UploadService:   NewUploadService(logger, cfg.Upload, cache),
		StatsService:    NewStatsService(logger, store),
	}
}
