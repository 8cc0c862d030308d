// Command migrate creates the database schema and optionally seeds the catalog and an admin.
//
//	go run ./cmd/migrate -seed -admin-email admin@modfy.lk -admin-password secret123
package main

import (
	"context"
	"errors"
	"flag"
	"modfy_server/config"
	"modfy_server/database"
	"modfy_server/lib"
	"modfy_server/storage"
	"modfy_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
)

func main() {
	seed := flag.Bool("seed", false, "load the demo catalog")
	drop := flag.Bool("drop", false, "drop all tables before creating them")
	adminEmail := flag.String("admin-email", "", "create an admin account with this email")
	adminPassword := flag.String("admin-password", "", "password for -admin-email")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.GetConfig()
	logger := config.InitializeLogger()
	ctx := context.Background()

	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", gecho.Field("error", err))
	}
	defer db.Close()

	if *drop {
		if err := db.DropSchema(ctx); err != nil {
			logger.Fatal("Failed to drop schema", gecho.Field("error", err))
		}
		logger.Warn("Dropped all tables")
	}

	if err := db.CreateSchema(ctx); err != nil {
		logger.Fatal("Failed to create schema", gecho.Field("error", err))
	}
	logger.Info("Schema is up to date")

	store := storage.NewDBStorage(db)

	if *seed {
		if err := storage.Seed(ctx, store); err != nil {
			logger.Fatal("Failed to seed catalog", gecho.Field("error", err))
		}
		logger.Info("Catalog seeded")
	}

	if *adminEmail != "" {
		if len(*adminPassword) < 8 {
			logger.Fatal("-admin-password must be at least 8 characters")
		}
		if err := createAdmin(ctx, store, *adminEmail, *adminPassword); err != nil {
			logger.Fatal("Failed to create admin", gecho.Field("error", err))
		}
		logger.Info("Admin account ready", gecho.Field("email", *adminEmail))
	}
}

// createAdmin inserts the admin, or promotes the account when the email is taken.
func createAdmin(ctx context.Context, store storage.Storage, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := lib.HashPassword(password, lib.DefaultArgonParams)
	if err != nil {
		return err
	}

	existing, err := store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		existing.Role = tables.RoleAdmin
		existing.PasswordHash = hash
		existing.IsEmailVerified = true
		return store.UpdateUser(ctx, existing)
	case !errors.Is(err, lib.ErrNotFound):
		return err
	}

	return store.CreateUser(ctx, &tables.User{
		Email:           email,
		PasswordHash:    hash,
		FirstName:       "Shop",
		LastName:        "Admin",
		Role:            tables.RoleAdmin,
		IsEmailVerified: true,
	})
}
