package storage

import (
	"context"
	"maps"
	"modfy_server/lib"
	"modfy_server/structs/tables"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStorage keeps every table in maps guarded by one lock. Values handed out are copies.
type MemStorage struct {
	mu sync.RWMutex

	users           map[uuid.UUID]*tables.User
	profiles        map[uuid.UUID]*tables.UserProfile // keyed by user id
	categories      map[uuid.UUID]*tables.Category
	products        map[uuid.UUID]*tables.Product
	collections     map[uuid.UUID]*tables.Collection
	collectionLinks map[uuid.UUID][]uuid.UUID // collection id -> product ids
	sizeCharts      map[uuid.UUID]*tables.SizeChart
	cartItems       map[uuid.UUID]*tables.CartItem
	wishlist        map[uuid.UUID]*tables.WishlistItem
	orders          map[uuid.UUID]*tables.Order
	orderItems      map[uuid.UUID][]*tables.OrderItem // order id -> items
	reviews         map[uuid.UUID]*tables.Review
	messages        map[uuid.UUID]*tables.ContactMessage
	settings        map[string]*tables.ContactSetting

	now func() time.Time
}

var _ Storage = (*MemStorage)(nil)

func NewMemStorage() *MemStorage {
	return &MemStorage{
		users:           make(map[uuid.UUID]*tables.User),
		profiles:        make(map[uuid.UUID]*tables.UserProfile),
		categories:      make(map[uuid.UUID]*tables.Category),
		products:        make(map[uuid.UUID]*tables.Product),
		collections:     make(map[uuid.UUID]*tables.Collection),
		collectionLinks: make(map[uuid.UUID][]uuid.UUID),
		sizeCharts:      make(map[uuid.UUID]*tables.SizeChart),
		cartItems:       make(map[uuid.UUID]*tables.CartItem),
		wishlist:        make(map[uuid.UUID]*tables.WishlistItem),
		orders:          make(map[uuid.UUID]*tables.Order),
		orderItems:      make(map[uuid.UUID][]*tables.OrderItem),
		reviews:         make(map[uuid.UUID]*tables.Review),
		messages:        make(map[uuid.UUID]*tables.ContactMessage),
		settings:        make(map[string]*tables.ContactSetting),
		now:             time.Now,
	}
}

func (m *MemStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemStorage) Close() error {
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (m *MemStorage) stamp(created, updated *time.Time) {
	now := m.now()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

// Users

func (m *MemStorage) GetUser(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MemStorage) GetUserByEmail(ctx context.Context, email string) (*tables.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u := m.userByEmail(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, lib.ErrNotFound
}

func (m *MemStorage) userByEmail(email string) *tables.User {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

func (m *MemStorage) ListUsers(ctx context.Context) ([]*tables.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *tables.User) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *MemStorage) CreateUser(ctx context.Context, user *tables.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.userByEmail(user.Email) != nil {
		return lib.ErrConflict
	}
	ensureID(&user.ID)
	if user.Role == "" {
		user.Role = tables.RoleCustomer
	}
	m.stamp(&user.CreatedAt, &user.UpdatedAt)

	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemStorage) UpdateUser(ctx context.Context, user *tables.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return lib.ErrNotFound
	}
	if other := m.userByEmail(user.Email); other != nil && other.ID != user.ID {
		return lib.ErrConflict
	}
	user.CreatedAt = existing.CreatedAt
	m.stamp(nil, &user.UpdatedAt)

	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MemStorage) DeleteUser(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.users, id)
	delete(m.profiles, id)
	for itemID, item := range m.cartItems {
		if item.UserID != nil && *item.UserID == id {
			delete(m.cartItems, itemID)
		}
	}
	for itemID, item := range m.wishlist {
		if item.UserID == id {
			delete(m.wishlist, itemID)
		}
	}
	return nil
}

func (m *MemStorage) GetUserProfile(ctx context.Context, userID uuid.UUID) (*tables.UserProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, lib.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemStorage) UpsertUserProfile(ctx context.Context, profile *tables.UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.profiles[profile.UserID]; ok {
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
	}
	ensureID(&profile.ID)
	m.stamp(&profile.CreatedAt, &profile.UpdatedAt)

	cp := *profile
	m.profiles[profile.UserID] = &cp
	return nil
}

// Contact

func (m *MemStorage) CreateContactMessage(ctx context.Context, msg *tables.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&msg.ID)
	if msg.Status == "" {
		msg.Status = tables.ContactStatusUnread
	}
	m.stamp(&msg.CreatedAt, &msg.UpdatedAt)

	cp := *msg
	m.messages[msg.ID] = &cp
	return nil
}

func (m *MemStorage) ListContactMessages(ctx context.Context) ([]*tables.ContactMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*tables.ContactMessage, 0, len(m.messages))
	for _, msg := range m.messages {
		cp := *msg
		out = append(out, &cp)
	}
	slices.SortFunc(out, func(a, b *tables.ContactMessage) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (m *MemStorage) UpdateContactMessageStatus(ctx context.Context, id uuid.UUID, status tables.ContactStatus) (*tables.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	msg, ok := m.messages[id]
	if !ok {
		return nil, lib.ErrNotFound
	}
	msg.Status = status
	m.stamp(nil, &msg.UpdatedAt)

	cp := *msg
	return &cp, nil
}

func (m *MemStorage) DeleteContactMessage(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.messages[id]; !ok {
		return lib.ErrNotFound
	}
	delete(m.messages, id)
	return nil
}

func (m *MemStorage) ListContactSettings(ctx context.Context) ([]*tables.ContactSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := slices.Sorted(maps.Keys(m.settings))
	out := make([]*tables.ContactSetting, 0, len(names))
	for _, name := range names {
		cp := *m.settings[name]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemStorage) GetContactSetting(ctx context.Context, name string) (*tables.ContactSetting, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.settings[name]
	if !ok {
		return nil, lib.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemStorage) UpsertContactSetting(ctx context.Context, setting *tables.ContactSetting) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stamp(nil, &setting.UpdatedAt)
	cp := *setting
	m.settings[setting.Name] = &cp
	return nil
}
