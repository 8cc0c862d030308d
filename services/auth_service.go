package services

import (
	"context"
	"errors"
	"fmt"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"net/url"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

var DefaultParams = lib.DefaultArgonParams

type AuthService struct {
	logger       *gecho.Logger
	cfg          *structs.Config
	store        storage.Storage
	emailService *EmailService
}

func NewAuthService(cfg *structs.Config, logger *gecho.Logger, store storage.Storage, emailService *EmailService) *AuthService {
	return &AuthService{
		logger:       logger,
		cfg:          cfg,
		store:        store,
		emailService: emailService,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account. A taken email returns lib.ErrConflict.
func (as *AuthService) Register(ctx context.Context, req *structs.SignupRequest) (*tables.User, error) {
	startTime := time.Now()

	passwordHash, err := as.HashPassword(req.Password)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}

	user := &tables.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         tables.RoleCustomer,
	}

	if err := as.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, lib.ErrConflict) {
			as.logger.Warn("Registration failed - duplicate user", gecho.Field("email", user.Email))
			return nil, err
		}
		as.logger.Error("Database error during registration", gecho.Field("error", err), gecho.Field("email", user.Email))
		return nil, err
	}

	SignupsTotal.Inc()
	as.logger.Debug("User registered successfully", gecho.Field("user_id", user.ID), gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))

	as.emailService.Go("welcome", func() error { return as.emailService.SendWelcomeEmail(user) })
	as.SendVerification(user)

	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords both return lib.ErrInvalidCredentials.
func (as *AuthService) Authenticate(ctx context.Context, email, password string) (*tables.User, error) {
	user, err := as.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, lib.ErrNotFound) {
			as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
			return nil, err
		}
		LoginFailuresTotal.Inc()
		as.logger.Debug("User not found during login attempt", gecho.Field("identifier", email))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := as.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, err
	}
	if !valid {
		LoginFailuresTotal.Inc()
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", user.ID))
		return nil, lib.ErrInvalidCredentials
	}

	return user, nil
}

func (as *AuthService) HashPassword(password string) (string, error) {
	return lib.HashPassword(password, DefaultParams)
}

func (as *AuthService) VerifyPassword(password, encodedHash string) (bool, error) {
	return lib.VerifyPassword(password, encodedHash)
}

func (as *AuthService) VerificationLink(user *tables.User) (string, error) {
	token, err := lib.GenerateVerificationToken(user.ID, user.Email, as.cfg.Auth.VerificationSecret, as.cfg.Auth.VerificationExpiry)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/api/auth/verify-email?token=%s", strings.TrimRight(as.cfg.Server.ServerURL, "/"), url.QueryEscape(token)), nil
}

// SendVerification emails a fresh verification link in the background.
func (as *AuthService) SendVerification(user *tables.User) {
	as.emailService.Go("verification", func() error {
		link, err := as.VerificationLink(user)
		if err != nil {
			return err
		}
		return as.emailService.SendVerificationEmail(user, link)
	})
}

// VerifyEmail marks the token's user as verified. The token must still match the account email.
func (as *AuthService) VerifyEmail(ctx context.Context, token string) (*tables.User, error) {
	userID, email, err := lib.ParseVerificationToken(token, as.cfg.Auth.VerificationSecret)
	if err != nil {
		as.logger.Warn("Rejected verification token", gecho.Field("error", err))
		return nil, err
	}

	user, err := as.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, lib.ErrNotFound) {
			return nil, lib.ErrInvalidToken
		}
		return nil, err
	}
	if !strings.EqualFold(user.Email, email) {
		return nil, lib.ErrInvalidToken
	}
	if user.IsEmailVerified {
		return user, nil
	}

	user.IsEmailVerified = true
	if err := as.store.UpdateUser(ctx, user); err != nil {
		as.logger.Error("Failed to mark email verified", gecho.Field("error", err), gecho.Field("user_id", user.ID))
		return nil, err
	}
	return user, nil
}

func (as *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	return as.store.GetUser(ctx, id)
}

// MergeGuestCart moves the guest session's cart lines to the user. Failures are logged only.
func (as *AuthService) MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) {
	if err := as.store.MergeGuestCart(ctx, sessionID, userID); err != nil {
		as.logger.Error("Failed to merge guest cart", gecho.Field("error", err), gecho.Field("user_id", userID))
	}
}
