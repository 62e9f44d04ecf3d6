package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/uptrace/bun"
)

// Queryable is implemented by every store in this package.
type Queryable interface {
	SelectQuery() *bun.SelectQuery
	DB() *bun.DB
}

// ProjectionFunc shapes a store query with caller state. It must only read.
type ProjectionFunc[S any] func(q *bun.SelectQuery, state S) *bun.SelectQuery

// Get runs a projection and scans the first row into R. A query with no
// rows returns the zero R.
func Get[S any, R any](ctx context.Context, store Queryable, fn ProjectionFunc[S], state S) (R, error) {
	var result R
	if store == nil || fn == nil {
		return result, fmt.Errorf("sqlstore: projection store and function are required")
	}
	q := fn(store.SelectQuery(), state).Limit(1)
	if err := q.Scan(ctx, &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var zero R
			return zero, nil
		}
		return result, err
	}
	return result, nil
}

// ListProjected streams every row of a projection as R.
func ListProjected[S any, R any](ctx context.Context, store Queryable, fn ProjectionFunc[S], state S) core.Sequence[R] {
	if store == nil || fn == nil {
		return core.ErrorSequence[R](fmt.Errorf("sqlstore: projection store and function are required"))
	}
	db := store.DB()
	q := fn(store.SelectQuery(), state)
	return core.NewSequence(func(yield func(R, error) bool) {
		var zero R
		rows, err := q.Rows(ctx)
		if err != nil {
			yield(zero, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			var item R
			if err := db.ScanRow(ctx, rows, &item); err != nil {
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	})
}
