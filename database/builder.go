package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// WhereClause is one condition; Or joins it with OR inside a group.
type WhereClause struct {
	Query string
	Args  []any
	Or    bool
}

type WhereGroup struct {
	Connector  string // "AND" or "OR", joins the group to the previous conditions
	Conditions []*WhereClause
}

type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// QueryBuilder wraps bun select, update and delete queries for a single table model.
type QueryBuilder[T any] struct {
	db    bun.IDB
	retry RetryConfig

	wheres    []*WhereClause
	groups    []*WhereGroup
	orders    []*OrderClause
	relations []string
	limitVal  *int
	offsetVal *int
	forUpdate bool
	timeout   time.Duration
}

// WhereGroupBuilder collects OR-joined conditions into one parenthesised group.
type WhereGroupBuilder[T any] struct {
	parent *QueryBuilder[T]
	group  *WhereGroup
}

// Query creates a new QueryBuilder against the connection pool
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db.DB, retry: db.retry}
}

// QueryTx creates a QueryBuilder bound to a transaction. Statements in a tx are never retried.
func QueryTx[T any](tx bun.Tx) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: tx}
}

func (q *QueryBuilder[T]) cond(query string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{Query: query, Args: args})
	return q
}

func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp compares column against value with operator, e.g. ">=" or "<>".
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	return q.cond("? "+operator+" ?", bun.Ident(column), value)
}

// WhereIn expects values to be a slice.
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	return q.cond("? IN (?)", bun.Ident(column), bun.In(values))
}

func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	return q.cond("? IS NULL", bun.Ident(column))
}

func (q *QueryBuilder[T]) WhereNotNull(column string) *QueryBuilder[T] {
	return q.cond("? IS NOT NULL", bun.Ident(column))
}

// WhereLike matches case-insensitively on both postgres and mysql.
func (q *QueryBuilder[T]) WhereLike(column, pattern string) *QueryBuilder[T] {
	return q.cond("LOWER(?) LIKE LOWER(?)", bun.Ident(column), pattern)
}

// WhereRaw takes bun placeholders.
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	return q.cond(sql, args...)
}

// WhereGroup starts a parenthesised group joined with connector
func (q *QueryBuilder[T]) WhereGroup(connector string) *WhereGroupBuilder[T] {
	group := &WhereGroup{Connector: connector}
	return &WhereGroupBuilder[T]{parent: q, group: group}
}

func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{Column: column, Direction: direction})
	return q
}

func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// With preloads a bun relation by field name, e.g. "Category" or "Items"
func (q *QueryBuilder[T]) With(relation string) *QueryBuilder[T] {
	q.relations = append(q.relations, relation)
	return q
}

// ForUpdate locks the selected rows until the transaction ends
func (q *QueryBuilder[T]) ForUpdate() *QueryBuilder[T] {
	q.forUpdate = true
	return q
}

// Timeout bounds the whole call, retries included.
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

func (w *WhereGroupBuilder[T]) or(query string, args ...any) *WhereGroupBuilder[T] {
	w.group.Conditions = append(w.group.Conditions, &WhereClause{Query: query, Args: args, Or: true})
	return w
}

func (w *WhereGroupBuilder[T]) Where(column string, value any) *WhereGroupBuilder[T] {
	return w.WhereOp(column, "=", value)
}

func (w *WhereGroupBuilder[T]) WhereOp(column, operator string, value any) *WhereGroupBuilder[T] {
	return w.or("? "+operator+" ?", bun.Ident(column), value)
}

func (w *WhereGroupBuilder[T]) WhereLike(column, pattern string) *WhereGroupBuilder[T] {
	return w.or("LOWER(?) LIKE LOWER(?)", bun.Ident(column), pattern)
}

func (w *WhereGroupBuilder[T]) WhereRaw(sql string, args ...any) *WhereGroupBuilder[T] {
	return w.or(sql, args...)
}

// End closes the group and returns to the parent builder
func (w *WhereGroupBuilder[T]) End() *QueryBuilder[T] {
	if len(w.group.Conditions) > 0 {
		w.parent.groups = append(w.parent.groups, w.group)
	}
	return w.parent
}

// whereable is satisfied by bun select, update and delete queries.
type whereable[Q any] interface {
	Where(query string, args ...any) Q
	WhereOr(query string, args ...any) Q
	WhereGroup(sep string, fn func(Q) Q) Q
}

func applyWheres[Q whereable[Q]](q Q, wheres []*WhereClause, groups []*WhereGroup) Q {
	for _, w := range wheres {
		q = applyClause(q, w)
	}
	for _, g := range groups {
		conditions := g.Conditions
		sep := " AND "
		if g.Connector == "OR" {
			sep = " OR "
		}
		q = q.WhereGroup(sep, func(inner Q) Q {
			for _, w := range conditions {
				inner = applyClause(inner, w)
			}
			return inner
		})
	}
	return q
}

func applyClause[Q whereable[Q]](q Q, w *WhereClause) Q {
	if w.Or {
		return q.WhereOr(w.Query, w.Args...)
	}
	return q.Where(w.Query, w.Args...)
}

func (q *QueryBuilder[T]) selectQuery(model any) *bun.SelectQuery {
	sel := q.db.NewSelect().Model(model)
	sel = applyWheres(sel, q.wheres, q.groups)

	for _, rel := range q.relations {
		sel = sel.Relation(rel)
	}
	for _, o := range q.orders {
		sel = sel.OrderExpr("? "+string(o.Direction), bun.Ident(o.Column))
	}
	if q.limitVal != nil {
		sel = sel.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		sel = sel.Offset(*q.offsetVal)
	}
	if q.forUpdate {
		sel = sel.For("UPDATE")
	}
	return sel
}

func (q *QueryBuilder[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}
