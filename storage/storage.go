// Package storage persists the shop's entities. Two implementations exist, MemStorage for
// development and tests and DBStorage on top of bun, selected at startup.
package storage

import (
	"context"
	"modfy_server/structs/tables"

	"github.com/google/uuid"
)

// Owner identifies whose cart is being addressed: a guest session or a user, never both.
type Owner struct {
	SessionID string
	UserID    *uuid.UUID
}

func UserOwner(id uuid.UUID) Owner {
	return Owner{UserID: &id}
}

func SessionOwner(sessionID string) Owner {
	return Owner{SessionID: sessionID}
}

func (o Owner) IsZero() bool {
	return o.UserID == nil && o.SessionID == ""
}

// Owns reports whether the cart line belongs to o.
func (o Owner) Owns(item *tables.CartItem) bool {
	if o.UserID != nil {
		return item.UserID != nil && *item.UserID == *o.UserID
	}
	return item.UserID == nil && o.SessionID != "" && item.SessionID == o.SessionID
}

// Apply stamps the owner onto a new cart line.
func (o Owner) Apply(item *tables.CartItem) {
	if o.UserID != nil {
		id := *o.UserID
		item.UserID = &id
		item.SessionID = ""
		return
	}
	item.UserID = nil
	item.SessionID = o.SessionID
}

type ProductFilter struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	IsFeatured    *bool
	IsActive      *bool
	Search        string
}

type OrderFilter struct {
	UserID *uuid.UUID
	Status tables.OrderStatus
}

// OrderBuilder turns the cart lines into an order and its items inside PlaceOrder.
type OrderBuilder func(lines []*tables.CartItem) (*tables.Order, []*tables.OrderItem, error)

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*tables.User, error)
	GetUserByEmail(ctx context.Context, email string) (*tables.User, error)
	ListUsers(ctx context.Context) ([]*tables.User, error)
	CreateUser(ctx context.Context, user *tables.User) error
	UpdateUser(ctx context.Context, user *tables.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error

	GetUserProfile(ctx context.Context, userID uuid.UUID) (*tables.UserProfile, error)
	UpsertUserProfile(ctx context.Context, profile *tables.UserProfile) error
}

type CatalogStore interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]*tables.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*tables.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*tables.Category, error)
	CreateCategory(ctx context.Context, category *tables.Category) error
	UpdateCategory(ctx context.Context, category *tables.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ReorderCategories(ctx context.Context, ids []uuid.UUID) error

	ListProducts(ctx context.Context, filter ProductFilter) ([]*tables.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error)
	CreateProduct(ctx context.Context, product *tables.Product) error
	UpdateProduct(ctx context.Context, product *tables.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCollections(ctx context.Context, activeOnly bool) ([]*tables.Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*tables.Collection, error)
	GetCollectionBySlug(ctx context.Context, slug string) (*tables.Collection, error)
	CreateCollection(ctx context.Context, collection *tables.Collection) error
	UpdateCollection(ctx context.Context, collection *tables.Collection) error
	DeleteCollection(ctx context.Context, id uuid.UUID) error
	SetCollectionProducts(ctx context.Context, collectionID uuid.UUID, productIDs []uuid.UUID) error
	ListCollectionProducts(ctx context.Context, collectionID uuid.UUID) ([]*tables.Product, error)

	ListSizeCharts(ctx context.Context) ([]*tables.SizeChart, error)
	GetSizeChart(ctx context.Context, id uuid.UUID) (*tables.SizeChart, error)
	CreateSizeChart(ctx context.Context, chart *tables.SizeChart) error
	UpdateSizeChart(ctx context.Context, chart *tables.SizeChart) error
	DeleteSizeChart(ctx context.Context, id uuid.UUID) error
}

type CartStore interface {
	ListCartItems(ctx context.Context, owner Owner) ([]*tables.CartItem, error)
	GetCartItem(ctx context.Context, id uuid.UUID) (*tables.CartItem, error)
	// AddToCart sums the quantity into an existing line with the same product, size and color.
	AddToCart(ctx context.Context, item *tables.CartItem) (*tables.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, id uuid.UUID, quantity int) (*tables.CartItem, error)
	RemoveCartItem(ctx context.Context, id uuid.UUID) error
	ClearCart(ctx context.Context, owner Owner) error
	MergeGuestCart(ctx context.Context, sessionID string, userID uuid.UUID) error
}

type WishlistStore interface {
	ListWishlist(ctx context.Context, userID uuid.UUID) ([]*tables.WishlistItem, error)
	// AddToWishlist returns the existing row and false when the pair is already present.
	AddToWishlist(ctx context.Context, item *tables.WishlistItem) (*tables.WishlistItem, bool, error)
	RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error
}

type OrderStore interface {
	// PlaceOrder reads the owner's cart, inserts the built order and items and clears the cart atomically.
	PlaceOrder(ctx context.Context, owner Owner, build OrderBuilder) (*tables.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter) ([]*tables.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status tables.OrderStatus) (*tables.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status tables.PaymentStatus) (*tables.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type ReviewStore interface {
	ListReviews(ctx context.Context, productID uuid.UUID) ([]*tables.Review, error)
	GetReview(ctx context.Context, id uuid.UUID) (*tables.Review, error)
	CreateReview(ctx context.Context, review *tables.Review) error
	DeleteReview(ctx context.Context, id uuid.UUID) error
	RandomReviews(ctx context.Context, limit int) ([]*tables.Review, error)
}

type ContactStore interface {
	CreateContactMessage(ctx context.Context, msg *tables.ContactMessage) error
	ListContactMessages(ctx context.Context) ([]*tables.ContactMessage, error)
	UpdateContactMessageStatus(ctx context.Context, id uuid.UUID, status tables.ContactStatus) (*tables.ContactMessage, error)
	DeleteContactMessage(ctx context.Context, id uuid.UUID) error

	ListContactSettings(ctx context.Context) ([]*tables.ContactSetting, error)
	GetContactSetting(ctx context.Context, name string) (*tables.ContactSetting, error)
	UpsertContactSetting(ctx context.Context, setting *tables.ContactSetting) error
}

type Storage interface {
	UserStore
	CatalogStore
	CartStore
	WishlistStore
	OrderStore
	ReviewStore
	ContactStore

	Ping(ctx context.Context) error
	Close() error
}
