package services

import (
	"context"
	"modfy_server/config"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// cheap argon2 settings so the suites stay fast
var testArgonParams = &lib.ArgonParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

func testConfig(t *testing.T) *structs.Config {
	t.Helper()
	cfg := config.Load()
	cfg.Email.ApiKey = ""
	cfg.Auth.SessionTTL = time.Hour
	cfg.Auth.VerificationSecret = "test-verification-secret"
	cfg.Auth.VerificationExpiry = time.Hour
	cfg.Server.ServerURL = "http://api.test"
	cfg.Shop.Currency = "LKR"
	cfg.Shop.FreeShippingThreshold = 10000
	cfg.Shop.WhatsAppNumber = "+94 77 123 4567"
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = 1 << 20
	return cfg
}

func newTestServices(t *testing.T) (*ServiceManager, storage.Storage) {
	t.Helper()
	DefaultParams = testArgonParams

	store := storage.NewMemStorage()
	sm := NewServiceManager(gecho.NewDefaultLogger(), testConfig(t), store, nil, NewMemorySessionStore())
	t.Cleanup(sm.EmailService.Wait)
	return sm, store
}

func seedProduct(t *testing.T, store storage.Storage, name string, price uint64) *tables.Product {
	t.Helper()
	p := &tables.Product{
		Name:          name,
		Slug:          lib.Slugify(name),
		Price:         price,
		Sizes:         []string{"M", "L"},
		SizePricing:   map[string]uint64{"L": price + 500},
		Colors:        []string{"Black"},
		Images:        []string{"/public-objects/products/" + lib.Slugify(name) + ".png"},
		StockQuantity: 10,
		PiecesPerPack: 1,
		IsActive:      true,
	}
	require.NoError(t, store.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, sm *ServiceManager, email string) *tables.User {
	t.Helper()
	user, err := sm.AuthService.Register(context.Background(), &structs.SignupRequest{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Nimal",
		LastName:  "Perera",
	})
	require.NoError(t, err)
	return user
}

func sessionFor(user *tables.User) *structs.Session {
	s := &structs.Session{ID: uuid.NewString(), ExpiresAt: time.Now().Add(time.Hour)}
	attachUser(s, user)
	return s
}
