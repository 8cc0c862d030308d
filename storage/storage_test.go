package storage

import (
	"context"
	"testing"
	"time"

	"modfy_server/lib"
	"modfy_server/structs/tables"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStorageSuite exercises behaviour every Storage implementation must share.
func runStorageSuite(t *testing.T, newStore func(t *testing.T) Storage) {
	t.Run("users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("products", func(t *testing.T) { testProducts(t, newStore(t)) })
	t.Run("collections", func(t *testing.T) { testCollections(t, newStore(t)) })
	t.Run("cart", func(t *testing.T) { testCart(t, newStore(t)) })
	t.Run("wishlist", func(t *testing.T) { testWishlist(t, newStore(t)) })
	t.Run("orders", func(t *testing.T) { testOrders(t, newStore(t)) })
	t.Run("reviews", func(t *testing.T) { testReviews(t, newStore(t)) })
	t.Run("contact", func(t *testing.T) { testContact(t, newStore(t)) })
	t.Run("seed", func(t *testing.T) { testSeed(t, newStore(t)) })
}

func createProduct(t *testing.T, store Storage, name string, price uint64, active bool) *tables.Product {
	t.Helper()
	p := &tables.Product{
		Name:          name,
		Slug:          lib.Slugify(name),
		Price:         price,
		Sizes:         []string{"M", "L"},
		SizePricing:   map[string]uint64{"L": price + 500},
		Colors:        []string{"Black"},
		Images:        []string{"/public-objects/products/" + lib.Slugify(name) + ".jpg"},
		StockQuantity: 10,
		PiecesPerPack: 1,
		IsActive:      active,
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func createUser(t *testing.T, store Storage, email string) *tables.User {
	t.Helper()
	u := &tables.User{Email: email, PasswordHash: "hash", FirstName: "Test", LastName: "User"}
	require.NoError(t, store.CreateUser(context.Background(), u))
	return u
}

func testUsers(t *testing.T, store Storage) {
	ctx := context.Background()

	u := createUser(t, store, "kasun@example.com")
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, tables.RoleCustomer, u.Role)

	err := store.CreateUser(ctx, &tables.User{Email: "KASUN@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, lib.ErrConflict)

	got, err := store.GetUserByEmail(ctx, "Kasun@Example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got.FirstName = "Kasun"
	require.NoError(t, store.UpdateUser(ctx, got))
	got, err = store.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kasun", got.FirstName)

	require.NoError(t, store.UpsertUserProfile(ctx, &tables.UserProfile{UserID: u.ID, City: "Colombo"}))
	require.NoError(t, store.UpsertUserProfile(ctx, &tables.UserProfile{UserID: u.ID, City: "Kandy"}))
	profile, err := store.GetUserProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kandy", profile.City)

	require.NoError(t, store.DeleteUser(ctx, u.ID))
	_, err = store.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
	_, err = store.GetUserProfile(ctx, u.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func testCategories(t *testing.T, store Storage) {
	ctx := context.Background()

	main := &tables.Category{Name: "Trunks", Slug: "trunks", SortOrder: 1, IsActive: true}
	other := &tables.Category{Name: "Briefs", Slug: "briefs", SortOrder: 0, IsActive: true}
	require.NoError(t, store.CreateCategory(ctx, main))
	require.NoError(t, store.CreateCategory(ctx, other))
	sub := &tables.Category{Name: "Long Trunks", Slug: "long-trunks", ParentID: &main.ID, IsActive: false}
	require.NoError(t, store.CreateCategory(ctx, sub))

	err := store.CreateCategory(ctx, &tables.Category{Name: "Trunks again", Slug: "trunks"})
	assert.ErrorIs(t, err, lib.ErrConflict)

	all, err := store.ListCategories(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Briefs", all[0].Name)

	active, err := store.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	require.NoError(t, store.ReorderCategories(ctx, []uuid.UUID{main.ID, other.ID}))
	all, err = store.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "Trunks", all[0].Name)

	p := createProduct(t, store, "Classic Trunk", 4800, true)
	p.CategoryID = &main.ID
	p.SubcategoryID = &sub.ID
	require.NoError(t, store.UpdateProduct(ctx, p))

	require.NoError(t, store.DeleteCategory(ctx, main.ID))
	_, err = store.GetCategory(ctx, sub.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	got, err := store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.SubcategoryID)

	assert.ErrorIs(t, store.DeleteCategory(ctx, main.ID), lib.ErrNotFound)
}

func testProducts(t *testing.T, store Storage) {
	ctx := context.Background()

	category := &tables.Category{Name: "Luxury", Slug: "luxury", IsActive: true}
	require.NoError(t, store.CreateCategory(ctx, category))

	silk := createProduct(t, store, "Silk Boxer", 8900, true)
	silk.CategoryID = &category.ID
	silk.IsFeatured = true
	silk.Description = "pure mulberry silk"
	require.NoError(t, store.UpdateProduct(ctx, silk))
	createProduct(t, store, "Cotton Brief", 4200, true)
	hidden := createProduct(t, store, "Archived Trunk", 3000, false)

	active := true
	list, err := store.ListProducts(ctx, ProductFilter{IsActive: &active})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cotton Brief", list[0].Name)
	for _, p := range list {
		assert.NotEqual(t, hidden.ID, p.ID)
	}

	list, err = store.ListProducts(ctx, ProductFilter{Search: "MULBERRY"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, silk.ID, list[0].ID)
	require.NotNil(t, list[0].Category)
	assert.Equal(t, "Luxury", list[0].Category.Name)

	featured := true
	list, err = store.ListProducts(ctx, ProductFilter{IsFeatured: &featured, CategoryID: &category.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got, err := store.GetProductBySlug(ctx, "silk-boxer")
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"L": 9400}, got.SizePricing)
	assert.Equal(t, []string{"M", "L"}, got.Sizes)

	dup := &tables.Product{Name: "Silk Boxer", Slug: "silk-boxer", Price: 1}
	assert.ErrorIs(t, store.CreateProduct(ctx, dup), lib.ErrConflict)

	require.NoError(t, store.DeleteProduct(ctx, hidden.ID))
	_, err = store.GetProduct(ctx, hidden.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	chart := &tables.SizeChart{Name: "Briefs", ChartData: [][]string{{"Size", "Waist"}, {"M", "81-86"}}, IsActive: true}
	require.NoError(t, store.CreateSizeChart(ctx, chart))
	got.SizeChartID = &chart.ID
	require.NoError(t, store.UpdateProduct(ctx, got))
	require.NoError(t, store.DeleteSizeChart(ctx, chart.ID))
	got, err = store.GetProduct(ctx, got.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SizeChartID)
}

func testCollections(t *testing.T, store Storage) {
	ctx := context.Background()

	c := &tables.Collection{Name: "Winter Warmth", Slug: "winter-warmth", Season: "Winter", Year: 2024, IsActive: true}
	require.NoError(t, store.CreateCollection(ctx, c))
	a := createProduct(t, store, "Thermal Brief", 5800, true)
	b := createProduct(t, store, "Cashmere Boxer", 12000, true)

	require.NoError(t, store.SetCollectionProducts(ctx, c.ID, []uuid.UUID{a.ID, b.ID, a.ID}))
	got, err := store.GetCollectionBySlug(ctx, "winter-warmth")
	require.NoError(t, err)
	assert.Len(t, got.Products, 2)

	assert.ErrorIs(t, store.SetCollectionProducts(ctx, c.ID, []uuid.UUID{uuid.New()}), lib.ErrNotFound)

	require.NoError(t, store.DeleteProduct(ctx, a.ID))
	products, err := store.ListCollectionProducts(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, b.ID, products[0].ID)

	require.NoError(t, store.DeleteCollection(ctx, c.ID))
	_, err = store.GetCollection(ctx, c.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func testCart(t *testing.T, store Storage) {
	ctx := context.Background()

	p := createProduct(t, store, "Signature Boxer Brief", 4800, true)
	guest := SessionOwner("guest-session")

	line := &tables.CartItem{ProductID: p.ID, Size: "M", Color: "Black", Quantity: 1}
	guest.Apply(line)
	first, err := store.AddToCart(ctx, line)
	require.NoError(t, err)

	again := &tables.CartItem{ProductID: p.ID, Size: "M", Color: "Black", Quantity: 2}
	guest.Apply(again)
	second, err := store.AddToCart(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.Quantity)
	require.NotNil(t, second.Product)
	assert.Equal(t, p.Name, second.Product.Name)

	other := &tables.CartItem{ProductID: p.ID, Size: "L", Color: "Black", Quantity: 1}
	guest.Apply(other)
	_, err = store.AddToCart(ctx, other)
	require.NoError(t, err)

	lines, err := store.ListCartItems(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	// Merge into a user who already holds one matching line.
	u := createUser(t, store, "merge@example.com")
	owned := &tables.CartItem{ProductID: p.ID, Size: "M", Color: "Black", Quantity: 1}
	UserOwner(u.ID).Apply(owned)
	_, err = store.AddToCart(ctx, owned)
	require.NoError(t, err)

	require.NoError(t, store.MergeGuestCart(ctx, "guest-session", u.ID))

	lines, err = store.ListCartItems(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, lines)

	lines, err = store.ListCartItems(ctx, UserOwner(u.ID))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	quantities := map[string]int{}
	for _, l := range lines {
		assert.Empty(t, l.SessionID)
		require.NotNil(t, l.UserID)
		quantities[l.Size] = l.Quantity
	}
	assert.Equal(t, map[string]int{"M": 4, "L": 1}, quantities)

	updated, err := store.UpdateCartItemQuantity(ctx, lines[0].ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	require.NoError(t, store.RemoveCartItem(ctx, lines[0].ID))
	assert.ErrorIs(t, store.RemoveCartItem(ctx, lines[0].ID), lib.ErrNotFound)

	require.NoError(t, store.ClearCart(ctx, UserOwner(u.ID)))
	lines, err = store.ListCartItems(ctx, UserOwner(u.ID))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func testWishlist(t *testing.T, store Storage) {
	ctx := context.Background()

	u := createUser(t, store, "wish@example.com")
	p := createProduct(t, store, "Essential Brief", 4200, true)

	item, created, err := store.AddToWishlist(ctx, &tables.WishlistItem{UserID: u.ID, ProductID: p.ID})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := store.AddToWishlist(ctx, &tables.WishlistItem{UserID: u.ID, ProductID: p.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, item.ID, again.ID)

	items, err := store.ListWishlist(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)

	require.NoError(t, store.RemoveFromWishlist(ctx, u.ID, p.ID))
	assert.ErrorIs(t, store.RemoveFromWishlist(ctx, u.ID, p.ID), lib.ErrNotFound)
}

func buildTestOrder(userID uuid.UUID) OrderBuilder {
	return func(lines []*tables.CartItem) (*tables.Order, []*tables.OrderItem, error) {
		order := &tables.Order{
			UserID:        userID,
			OrderNumber:   lib.GenerateOrderNumber(time.Now()),
			Status:        tables.OrderStatusPending,
			PaymentStatus: tables.PaymentStatusPending,
			PhoneNumber:   "+94771234567",
			DeliveryAddress: tables.DeliveryAddress{
				FullName: "Nimal Perera", AddressLine1: "12 Galle Road", City: "Colombo",
			},
		}
		var items []*tables.OrderItem
		for _, l := range lines {
			unit := l.Product.UnitPrice(l.Size)
			total := unit * uint64(l.Quantity)
			order.TotalAmount += total
			items = append(items, &tables.OrderItem{
				ProductID:   l.ProductID,
				ProductName: l.Product.Name,
				Size:        l.Size,
				Color:       l.Color,
				Quantity:    l.Quantity,
				UnitPrice:   unit,
				TotalPrice:  total,
			})
		}
		return order, items, nil
	}
}

func testOrders(t *testing.T, store Storage) {
	ctx := context.Background()

	u := createUser(t, store, "order@example.com")
	owner := UserOwner(u.ID)
	p := createProduct(t, store, "Performance Trunk", 5500, true)

	_, err := store.PlaceOrder(ctx, owner, buildTestOrder(u.ID))
	assert.ErrorIs(t, err, lib.ErrEmptyCart)

	line := &tables.CartItem{ProductID: p.ID, Size: "L", Color: "Black", Quantity: 2}
	owner.Apply(line)
	_, err = store.AddToCart(ctx, line)
	require.NoError(t, err)

	order, err := store.PlaceOrder(ctx, owner, buildTestOrder(u.ID))
	require.NoError(t, err)
	assert.Equal(t, uint64(12000), order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, uint64(6000), order.Items[0].UnitPrice)
	assert.Equal(t, "Colombo", order.DeliveryAddress.City)

	lines, err := store.ListCartItems(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, lines)

	// Later price edits leave the snapshot alone.
	p.Price = 9999
	p.SizePricing = nil
	require.NoError(t, store.UpdateProduct(ctx, p))
	got, err := store.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(12000), got.TotalAmount)
	assert.Equal(t, uint64(6000), got.Items[0].UnitPrice)

	purchased, err := store.HasPurchased(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.True(t, purchased)

	got, err = store.UpdateOrderStatus(ctx, order.ID, tables.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusCancelled, got.Status)

	purchased, err = store.HasPurchased(ctx, u.ID, p.ID)
	require.NoError(t, err)
	assert.False(t, purchased)

	got, err = store.UpdatePaymentStatus(ctx, order.ID, tables.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentStatusPaid, got.PaymentStatus)

	mine, err := store.ListOrders(ctx, OrderFilter{UserID: &u.ID})
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	pending, err := store.ListOrders(ctx, OrderFilter{Status: tables.OrderStatusPending})
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, store.DeleteOrder(ctx, order.ID))
	_, err = store.GetOrder(ctx, order.ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func testReviews(t *testing.T, store Storage) {
	ctx := context.Background()

	p := createProduct(t, store, "Luxury Silk Boxer", 8900, true)
	for i, rating := range []int{5, 4, 3} {
		r := &tables.Review{ProductID: p.ID, AuthorName: "Customer", Rating: rating, Title: "Review", Comment: string(rune('a' + i))}
		require.NoError(t, store.CreateReview(ctx, r))
	}

	assert.ErrorIs(t, store.CreateReview(ctx, &tables.Review{ProductID: uuid.New(), Rating: 5}), lib.ErrNotFound)

	reviews, err := store.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)

	random, err := store.RandomReviews(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, random, 2)

	require.NoError(t, store.DeleteReview(ctx, reviews[0].ID))
	_, err = store.GetReview(ctx, reviews[0].ID)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	require.NoError(t, store.DeleteProduct(ctx, p.ID))
	reviews, err = store.ListReviews(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func testContact(t *testing.T, store Storage) {
	ctx := context.Background()

	msg := &tables.ContactMessage{Name: "Ruwan", Email: "ruwan@example.com", Subject: "Sizing", Message: "Do trunks run small?"}
	require.NoError(t, store.CreateContactMessage(ctx, msg))
	assert.Equal(t, tables.ContactStatusUnread, msg.Status)

	updated, err := store.UpdateContactMessageStatus(ctx, msg.ID, tables.ContactStatusReplied)
	require.NoError(t, err)
	assert.Equal(t, tables.ContactStatusReplied, updated.Status)

	_, err = store.UpdateContactMessageStatus(ctx, uuid.New(), tables.ContactStatusRead)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	require.NoError(t, store.UpsertContactSetting(ctx, &tables.ContactSetting{Name: tables.SettingWhatsAppNumber, Value: "+94770000000"}))
	require.NoError(t, store.UpsertContactSetting(ctx, &tables.ContactSetting{Name: tables.SettingWhatsAppNumber, Value: "+94771111111"}))
	setting, err := store.GetContactSetting(ctx, tables.SettingWhatsAppNumber)
	require.NoError(t, err)
	assert.Equal(t, "+94771111111", setting.Value)

	settings, err := store.ListContactSettings(ctx)
	require.NoError(t, err)
	assert.Len(t, settings, 1)

	require.NoError(t, store.DeleteContactMessage(ctx, msg.ID))
	msgs, err := store.ListContactMessages(ctx)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func testSeed(t *testing.T, store Storage) {
	ctx := context.Background()

	require.NoError(t, Seed(ctx, store))
	require.NoError(t, Seed(ctx, store))

	categories, err := store.ListCategories(ctx, true)
	require.NoError(t, err)
	assert.Len(t, categories, 6)

	collection, err := store.GetCollectionBySlug(ctx, "luxury-series")
	require.NoError(t, err)
	assert.Len(t, collection.Products, 2)
}
