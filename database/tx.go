package database

import (
	"context"
	"fmt"
	"modfy_server/structs/tables"

	"github.com/uptrace/bun"
)

// RunInTx runs fn inside a transaction. It rolls back when fn returns an error or panics.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return db.DB.RunInTx(ctx, nil, fn)
}

// CreateSchema creates every table that does not exist yet.
func (db *DB) CreateSchema(ctx context.Context) error {
	for _, model := range tables.Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}
	return nil
}

// DropSchema drops every table. Only used by tests and the migrate tool.
func (db *DB) DropSchema(ctx context.Context) error {
	models := tables.Models()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to drop table for %T: %w", models[i], err)
		}
	}
	return nil
}
