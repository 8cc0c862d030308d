package account

import (
	"modfy_server/api/middleware"
	"modfy_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AccountRoutesManager struct {
	logger         *gecho.Logger
	accountService *services.AccountService
	mw             *middleware.Middleware
}

func NewAccountRoutesManager(logger *gecho.Logger, accountService *services.AccountService, mw *middleware.Middleware) *AccountRoutesManager {
	return &AccountRoutesManager{
		logger:         logger,
		accountService: accountService,
		mw:             mw,
	}
}

func (arm *AccountRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/profile", func(r chi.Router) {
		r.Use(arm.mw.RequireUser)
		r.Get("/", arm.GetProfile)
		r.Post("/", arm.SaveProfile)
	})
}
