package structs

import "github.com/google/uuid"

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Size      string    `json:"size" validate:"max=20"`
	Color     string    `json:"color" validate:"max=50"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=1,lte=99"`
}

type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0,lte=99"`
}

type WishlistRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

type DeliveryAddressRequest struct {
	FullName     string `json:"fullName" validate:"required,min=1,max=200"`
	AddressLine1 string `json:"addressLine1" validate:"required,min=1,max=255"`
	AddressLine2 string `json:"addressLine2" validate:"max=255"`
	City         string `json:"city" validate:"required,min=1,max=100"`
	PostalCode   string `json:"postalCode" validate:"max=20"`
}

type CheckoutRequest struct {
	DeliveryAddress DeliveryAddressRequest `json:"deliveryAddress"`
	PhoneNumber     string                 `json:"phoneNumber" validate:"required,min=7,max=30"`
	CustomerEmail   string                 `json:"customerEmail" validate:"omitempty,email"`
	Notes           string                 `json:"notes" validate:"max=1000"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

type PaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" validate:"required,oneof=pending paid failed"`
}

type ReviewRequest struct {
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title      string `json:"title" validate:"max=200"`
	Comment    string `json:"comment" validate:"max=5000"`
	AuthorName string `json:"authorName" validate:"max=100"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Subject string `json:"subject" validate:"required,min=1,max=200"`
	Message string `json:"message" validate:"required,min=1,max=5000"`
}

type ContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unread read replied"`
}

type ContactSettingsRequest struct {
	Settings map[string]string `json:"settings" validate:"required,min=1"`
}
