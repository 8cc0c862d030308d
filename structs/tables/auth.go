package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	bun.BaseModel   `bun:"table:users,alias:u"`
	ID              uuid.UUID `bun:"id,pk,type:varchar(36)" json:"id"`
	Email           string    `bun:"email,unique,notnull" json:"email"`
	PasswordHash    string    `bun:"password_hash,notnull" json:"-"`
	FirstName       string    `bun:"first_name" json:"firstName"`
	LastName        string    `bun:"last_name" json:"lastName"`
	Role            UserRole  `bun:"role,notnull,default:'customer'" json:"role"`
	IsEmailVerified bool      `bun:"is_email_verified,notnull,default:false" json:"isEmailVerified"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserProfile holds the delivery defaults prefilled into checkout.
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles,alias:up"`
	ID            uuid.UUID `bun:"id,pk,type:varchar(36)" json:"id"`
	UserID        uuid.UUID `bun:"user_id,unique,notnull,type:varchar(36)" json:"userId"`
	FullName      string    `bun:"full_name" json:"fullName"`
	PhoneNumber   string    `bun:"phone_number" json:"phoneNumber"`
	AddressLine1  string    `bun:"address_line_1" json:"addressLine1"`
	AddressLine2  string    `bun:"address_line_2" json:"addressLine2"`
	City          string    `bun:"city" json:"city"`
	PostalCode    string    `bun:"postal_code" json:"postalCode"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
