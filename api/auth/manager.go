package auth

import (
	"modfy_server/api/middleware"
	"modfy_server/services"
	"modfy_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger         *gecho.Logger
	authService    *services.AuthService
	sessionService *services.SessionService
	cfg            *structs.Config
	mw             *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	sessionService *services.SessionService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:         logger,
		authService:    authService,
		sessionService: sessionService,
		cfg:            cfg,
		mw:             mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", arm.HandleSignup)
		r.Post("/login", arm.HandleLogin)
		r.Post("/logout", arm.HandleLogout)
		r.Get("/user", arm.HandleUser)
		r.Get("/verify-email", arm.HandleVerifyEmail)

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.RequireUser)
			r.Post("/resend-verification", arm.HandleResendVerification)
		})
	})
}
