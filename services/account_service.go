package services

import (
	"context"
	"errors"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// AccountService covers admin user management and the customer profile.
type AccountService struct {
	logger         *gecho.Logger
	store          storage.Storage
	authService    *AuthService
	sessionService *SessionService
}

func NewAccountService(logger *gecho.Logger, store storage.Storage, authService *AuthService, sessionService *SessionService) *AccountService {
	return &AccountService{
		logger:         logger,
		store:          store,
		authService:    authService,
		sessionService: sessionService,
	}
}

func (as *AccountService) ListUsers(ctx context.Context) ([]*tables.User, error) {
	users, err := as.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*tables.User{}
	}
	return users, nil
}

func (as *AccountService) CreateUser(ctx context.Context, req *structs.CreateUserRequest) (*tables.User, error) {
	hash, err := as.authService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := tables.RoleCustomer
	if req.Role != "" {
		role = tables.UserRole(req.Role)
	}

	user := &tables.User{
		Email:           normalizeEmail(req.Email),
		PasswordHash:    hash,
		FirstName:       strings.TrimSpace(req.FirstName),
		LastName:        strings.TrimSpace(req.LastName),
		Role:            role,
		IsEmailVerified: req.IsEmailVerified,
	}
	if err := as.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	as.logger.Info("User created by admin", gecho.Field("user_id", user.ID), gecho.Field("role", user.Role))
	return user, nil
}

func (as *AccountService) UpdateUser(ctx context.Context, id uuid.UUID, req *structs.UpdateUserRequest) (*tables.User, error) {
	user, err := as.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	// Sessions carry email and role, so changing either (or the password) signs the user out.
	signOut := false
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		signOut = signOut || email != user.Email
		user.Email = email
	}
	if req.Password != nil {
		signOut = true
		hash, err := as.authService.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		role := tables.UserRole(*req.Role)
		signOut = signOut || role != user.Role
		user.Role = role
	}
	if req.IsEmailVerified != nil {
		user.IsEmailVerified = *req.IsEmailVerified
	}

	if err := as.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	if signOut {
		if err := as.sessionService.DestroyUser(ctx, user.ID); err != nil {
			return nil, err
		}
		as.logger.Info("User signed out after account change", gecho.Field("user_id", user.ID))
	}
	return user, nil
}

// DeleteUser removes an account. Admins cannot delete themselves.
func (as *AccountService) DeleteUser(ctx context.Context, actor, id uuid.UUID) error {
	if actor == id {
		return lib.NewValidationError("id", "you cannot delete your own account")
	}
	if err := as.store.DeleteUser(ctx, id); err != nil {
		return err
	}
	return as.sessionService.DestroyUser(ctx, id)
}

// GetProfile returns the stored profile, or an empty one for users who never saved it.
func (as *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*tables.UserProfile, error) {
	profile, err := as.store.GetUserProfile(ctx, userID)
	if errors.Is(err, lib.ErrNotFound) {
		return &tables.UserProfile{UserID: userID}, nil
	}
	return profile, err
}

func (as *AccountService) SaveProfile(ctx context.Context, userID uuid.UUID, req *structs.ProfileRequest) (*tables.UserProfile, error) {
	profile := &tables.UserProfile{
		UserID:       userID,
		FullName:     strings.TrimSpace(req.FullName),
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		City:         strings.TrimSpace(req.City),
		PostalCode:   strings.TrimSpace(req.PostalCode),
	}
	if err := as.store.UpsertUserProfile(ctx, profile); err != nil {
		as.logger.Error("Failed to save profile", gecho.Field("error", err), gecho.Field("user_id", userID))
		return nil, err
	}
	return as.store.GetUserProfile(ctx, userID)
}
