package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ContactStatus string

const (
	ContactStatusUnread  ContactStatus = "unread"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

// ContactMessage is a message sent through the storefront contact form.
type ContactMessage struct {
	bun.BaseModel `bun:"table:contact_messages,alias:cm"`
	ID            uuid.UUID     `bun:"id,pk,type:varchar(36)" json:"id"`
	Name          string        `bun:"name,notnull" json:"name"`
	Email         string        `bun:"email,notnull" json:"email"`
	Phone         string        `bun:"phone" json:"phone"`
	Subject       string        `bun:"subject,notnull" json:"subject"`
	Message       string        `bun:"message,notnull,type:text" json:"message"`
	Status        ContactStatus `bun:"status,notnull,default:'unread'" json:"status"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt     time.Time     `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// ContactSetting is a named value shown on the contact page (phone, whatsapp_number, address...).
type ContactSetting struct {
	bun.BaseModel `bun:"table:contact_settings,alias:cs"`
	Name          string    `bun:"name,pk,type:varchar(100)" json:"name"`
	Value         string    `bun:"value,type:text" json:"value"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

const SettingWhatsAppNumber = "whatsapp_number"
