package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CartItem belongs to a guest session or to a user, never both.
type CartItem struct {
	bun.BaseModel `bun:"table:cart_items,alias:ci"`
	ID            uuid.UUID  `bun:"id,pk,type:varchar(36)" json:"id"`
	SessionID     string     `bun:"session_id,nullzero,type:varchar(64)" json:"sessionId,omitempty"`
	UserID        *uuid.UUID `bun:"user_id,type:varchar(36)" json:"userId,omitempty"`
	ProductID     uuid.UUID  `bun:"product_id,notnull,type:varchar(36)" json:"productId"`
	Size          string     `bun:"size" json:"size"`
	Color         string     `bun:"color" json:"color"`
	Quantity      int        `bun:"quantity,notnull,default:1" json:"quantity"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}

// MaxLineQuantity caps a single cart line, however many adds or merges feed it.
const MaxLineQuantity = 99

// AddQuantity sums n into the line, capped at MaxLineQuantity.
func (c *CartItem) AddQuantity(n int) {
	c.Quantity = min(c.Quantity+n, MaxLineQuantity)
}

type WishlistItem struct {
	bun.BaseModel `bun:"table:wishlist_items,alias:wi"`
	ID            uuid.UUID `bun:"id,pk,type:varchar(36)" json:"id"`
	UserID        uuid.UUID `bun:"user_id,notnull,unique:wishlist_user_product,type:varchar(36)" json:"userId"`
	ProductID     uuid.UUID `bun:"product_id,notnull,unique:wishlist_user_product,type:varchar(36)" json:"productId"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}
