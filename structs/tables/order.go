package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Order struct {
	// Table Name and identifiers
	bun.BaseModel `bun:"table:orders,alias:o"`
	ID            uuid.UUID `bun:"id,pk,type:varchar(36)" json:"id"`
	UserID        uuid.UUID `bun:"user_id,notnull,type:varchar(36)" json:"userId"`
	OrderNumber   string    `bun:"order_number,notnull,unique" json:"orderNumber"`

	// Order Data
	Status        OrderStatus   `bun:"status,notnull,default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `bun:"payment_status,notnull,default:'pending'" json:"paymentStatus"`
	TotalAmount   uint64        `bun:"total_amount,notnull" json:"totalAmount"` // stored in cents

	// Customer Data
	CustomerEmail   string          `bun:"customer_email" json:"customerEmail"`
	DeliveryAddress DeliveryAddress `bun:"delivery_address,type:json" json:"deliveryAddress"`
	PhoneNumber     string          `bun:"phone_number,notnull" json:"phoneNumber"`
	Notes           string          `bun:"notes,type:text" json:"notes"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Items []*OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
}

// DeliveryAddress is stored as a json blob on the order.
type DeliveryAddress struct {
	FullName     string `json:"fullName"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	PostalCode   string `json:"postalCode,omitempty"`
}

// OrderItem snapshots the product at order time.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`
	ID            uuid.UUID `bun:"id,pk,type:varchar(36)" json:"id"`
	OrderID       uuid.UUID `bun:"order_id,notnull,type:varchar(36)" json:"orderId"`
	ProductID     uuid.UUID `bun:"product_id,notnull,type:varchar(36)" json:"productId"`
	ProductName   string    `bun:"product_name,notnull" json:"productName"`
	ProductImage  string    `bun:"product_image" json:"productImage"`
	Size          string    `bun:"size" json:"size"`
	Color         string    `bun:"color" json:"color"`
	Quantity      int       `bun:"quantity,notnull" json:"quantity"`
	UnitPrice     uint64    `bun:"unit_price,notnull" json:"unitPrice"`   // Price when ordered
	TotalPrice    uint64    `bun:"total_price,notnull" json:"totalPrice"` // quantity * unit_price
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)
