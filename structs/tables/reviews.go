package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Review struct {
	bun.BaseModel      `bun:"table:reviews,alias:r"`
	ID                 uuid.UUID  `bun:"id,pk,type:varchar(36)" json:"id"`
	ProductID          uuid.UUID  `bun:"product_id,notnull,type:varchar(36)" json:"productId"`
	UserID             *uuid.UUID `bun:"user_id,type:varchar(36)" json:"userId,omitempty"`
	SessionID          string     `bun:"session_id,nullzero,type:varchar(64)" json:"-"`
	AuthorName         string     `bun:"author_name" json:"authorName"`
	Rating             int        `bun:"rating,notnull" json:"rating"`
	Title              string     `bun:"title" json:"title"`
	Comment            string     `bun:"comment,type:text" json:"comment"`
	IsVerifiedPurchase bool       `bun:"is_verified_purchase,notnull,default:false" json:"isVerifiedPurchase"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}
