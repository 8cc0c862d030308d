package storage

import (
	"context"
	"os"
	"testing"

	"modfy_server/database"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/require"
)

// TestDBStorage runs the shared suite against a real database. Set TEST_DATABASE_DSN and
// optionally TEST_DATABASE_DRIVER (postgres, pgx, mysql). Tables are dropped afterwards.
func TestDBStorage(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	driver := os.Getenv("TEST_DATABASE_DRIVER")
	if driver == "" {
		driver = database.DriverPostgres
	}

	db, err := database.OpenDSN(driver, dsn, gecho.NewDefaultLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	runStorageSuite(t, func(t *testing.T) Storage {
		ctx := context.Background()
		require.NoError(t, db.DropSchema(ctx))
		require.NoError(t, db.CreateSchema(ctx))
		t.Cleanup(func() { _ = db.DropSchema(context.Background()) })
		return NewDBStorage(db)
	})
}
