package store

import (
	"context"
	"fmt"

	perr "aspectscan/internal/platform/errors"
)

// Many maps every row of a query through scan
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	return collect(ctx, q, scan, 0, sql, args...)
}

// One maps exactly one row. No rows is perr.ErrNotFound; more than one is an error.
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	items, err := collect(ctx, q, scan, 2, sql, args...)
	switch {
	case err != nil:
		return zero, err
	case len(items) == 0:
		return zero, perr.ErrNotFound
	case len(items) > 1:
		return zero, fmt.Errorf("store: expected 1 row, got more")
	}
	return items[0], nil
}

// collect stops after max rows when max > 0. Rows satisfies Row, so scan sees the cursor directly.
func collect[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), max int, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out, rows.Err()
}
