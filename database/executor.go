package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var errUnscoped = errors.New("refusing to write without conditions")

// run applies the builder's timeout and retry policy to op and tags
// failures with the statement kind and elapsed time.
func (q *QueryBuilder[T]) run(ctx context.Context, kind string, op func(ctx context.Context) error) error {
	start := time.Now()
	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	err := RetryWithBackoff(ctx, q.retry, func() error { return op(ctx) })
	if err != nil {
		return fmt.Errorf("%s on %s: %w (took %v)", kind, q.table(), err, time.Since(start))
	}
	return nil
}

func (q *QueryBuilder[T]) table() string {
	var model T
	return fmt.Sprintf("%T", model)
}

func (q *QueryBuilder[T]) scoped() bool {
	return len(q.wheres) > 0 || len(q.groups) > 0
}

func rowsAffected(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// All returns every matching row.
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	var data []T
	err := q.run(ctx, "select", func(ctx context.Context) error {
		data = nil
		return q.selectQuery(&data).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// First returns the first match, or nil when nothing matches.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	var data T
	err := q.run(ctx, "select first", func(ctx context.Context) error {
		return q.selectQuery(&data).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	var count int
	err := q.run(ctx, "count", func(ctx context.Context) error {
		var model T
		var err error
		count, err = applyWheres(q.db.NewSelect().Model(&model), q.wheres, q.groups).Count(ctx)
		return err
	})
	return count, err
}

func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	n, err := q.Count(ctx)
	return n > 0, err
}

func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) error {
	return q.run(ctx, "insert", func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(data).Exec(ctx)
		return err
	})
}

// InsertMany writes all rows in a single statement.
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []*T) error {
	if len(data) == 0 {
		return nil
	}
	return q.run(ctx, "bulk insert", func(ctx context.Context) error {
		_, err := q.db.NewInsert().Model(&data).Exec(ctx)
		return err
	})
}

// Update writes data by primary key, limited to columns when any are given.
func (q *QueryBuilder[T]) Update(ctx context.Context, data *T, columns ...string) (int, error) {
	var n int
	err := q.run(ctx, "update", func(ctx context.Context) error {
		upd := q.db.NewUpdate().Model(data).WherePK()
		if len(columns) > 0 {
			upd = upd.Column(columns...)
		}
		var err error
		n, err = rowsAffected(applyWheres(upd, q.wheres, q.groups).Exec(ctx))
		return err
	})
	return n, err
}

// UpdateSet assigns values on every row the conditions match.
func (q *QueryBuilder[T]) UpdateSet(ctx context.Context, values map[string]any) (int, error) {
	if !q.scoped() {
		return 0, errUnscoped
	}
	var n int
	err := q.run(ctx, "update set", func(ctx context.Context) error {
		var model T
		upd := q.db.NewUpdate().Model(&model)
		for column, value := range values {
			upd = upd.Set("? = ?", bun.Ident(column), value)
		}
		var err error
		n, err = rowsAffected(applyWheres(upd, q.wheres, q.groups).Exec(ctx))
		return err
	})
	return n, err
}

func (q *QueryBuilder[T]) Delete(ctx context.Context) (int, error) {
	if !q.scoped() {
		return 0, errUnscoped
	}
	var n int
	err := q.run(ctx, "delete", func(ctx context.Context) error {
		var model T
		var err error
		n, err = rowsAffected(applyWheres(q.db.NewDelete().Model(&model), q.wheres, q.groups).Exec(ctx))
		return err
	})
	return n, err
}
