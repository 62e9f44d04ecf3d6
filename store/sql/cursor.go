package sqlstore

import (
	"context"

	"github.com/goliatone/go-oauth-store/core"
	"github.com/uptrace/bun"
)

// cursorSequence opens q lazily on first iteration and streams one record
// per row. Stopping early closes the cursor. With a single pooled
// connection the caller must drain or break before issuing another query.
func cursorSequence[R any, T any](ctx context.Context, db *bun.DB, q *bun.SelectQuery, convert func(*R) (T, error)) core.Sequence[T] {
	return core.NewSequence(func(yield func(T, error) bool) {
		var zero T
		rows, err := q.Rows(ctx)
		if err != nil {
			yield(zero, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			record := new(R)
			if err := db.ScanRow(ctx, rows, record); err != nil {
				yield(zero, err)
				return
			}
			item, err := convert(record)
			if err != nil {
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

// filterSequence keeps the items for which keep returns true. Errors pass
// through.
func filterSequence[T any](source core.Sequence[T], keep func(T) bool) core.Sequence[T] {
	return core.NewSequence(func(yield func(T, error) bool) {
		for item, err := range source.All() {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !keep(item) {
				continue
			}
			if !yield(item, nil) {
				return
			}
		}
	})
}
