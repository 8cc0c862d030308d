package middleware

import (
	"modfy_server/services"
	"modfy_server/structs"

	"github.com/MonkyMars/gecho"
)

type Middleware struct {
	cfg            *structs.Config
	logger         *gecho.Logger
	cacheService   *services.CacheService
	sessionService *services.SessionService
}

// NewMiddleware builds the shared middleware. cacheService may be nil, which turns rate limiting off.
func NewMiddleware(cfg *structs.Config, logger *gecho.Logger, cacheService *services.CacheService, sessionService *services.SessionService) *Middleware {
	return &Middleware{
		cfg:            cfg,
		logger:         logger,
		cacheService:   cacheService,
		sessionService: sessionService,
	}
}
