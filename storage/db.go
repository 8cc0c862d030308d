package storage

import (
	"context"
	"modfy_server/database"
	"modfy_server/lib"
	"time"
)

// DBStorage persists through bun. IDs and timestamps are set before insert because
// MySQL has no RETURNING.
type DBStorage struct {
	db  *database.DB
	now func() time.Time
}

var _ Storage = (*DBStorage)(nil)

func NewDBStorage(db *database.DB) *DBStorage {
	return &DBStorage{db: db, now: time.Now}
}

func (s *DBStorage) Ping(ctx context.Context) error {
	return s.db.Health(ctx)
}

func (s *DBStorage) Close() error {
	return s.db.Close()
}

// DB exposes the connection for health and stats reporting.
func (s *DBStorage) DB() *database.DB {
	return s.db
}

func (s *DBStorage) stamp(created, updated *time.Time) {
	now := s.now().UTC()
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

// found maps a nil First result to ErrNotFound.
func found[T any](row *T, err error) (*T, error) {
	if err != nil {
		return nil, lib.MapDBError(err)
	}
	if row == nil {
		return nil, lib.ErrNotFound
	}
	return row, nil
}

func pointers[T any](rows []T) []*T {
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}

// affected maps a zero row count to ErrNotFound.
func affected(n int, err error) error {
	if err != nil {
		return lib.MapDBError(err)
	}
	if n == 0 {
		return lib.ErrNotFound
	}
	return nil
}
