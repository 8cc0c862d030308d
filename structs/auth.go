package structs

import (
	"time"

	"github.com/google/uuid"
)

type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"required,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// SessionUser is the denormalized user summary kept in the session.
type SessionUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
}

type Session struct {
	ID        string       `json:"id"`
	UserID    *uuid.UUID   `json:"userId,omitempty"`
	User      *SessionUser `json:"user,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != nil
}

func (s *Session) IsAdmin() bool {
	return s.IsAuthenticated() && s.User != nil && s.User.Role == "admin"
}

type CreateUserRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	FirstName       string `json:"firstName" validate:"required,min=1,max=100"`
	LastName        string `json:"lastName" validate:"required,min=1,max=100"`
	Role            string `json:"role" validate:"omitempty,oneof=customer admin"`
	IsEmailVerified bool   `json:"isEmailVerified"`
}

type UpdateUserRequest struct {
	Email           *string `json:"email" validate:"omitempty,email"`
	Password        *string `json:"password" validate:"omitempty,min=8,max=128"`
	FirstName       *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName        *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Role            *string `json:"role" validate:"omitempty,oneof=customer admin"`
	IsEmailVerified *bool   `json:"isEmailVerified"`
}

type ProfileRequest struct {
	FullName     string `json:"fullName" validate:"max=200"`
	PhoneNumber  string `json:"phoneNumber" validate:"max=30"`
	AddressLine1 string `json:"addressLine1" validate:"max=255"`
	AddressLine2 string `json:"addressLine2" validate:"max=255"`
	City         string `json:"city" validate:"max=100"`
	PostalCode   string `json:"postalCode" validate:"max=20"`
}
