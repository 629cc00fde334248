package store

import (
	"context"
	"errors"

	"aspectscan/internal/platform/store/ch"
)

// chAdapter exposes *ch.CH through the Clickhouse seam
type chAdapter struct{ c *ch.CH }

var _ interface {
	Clickhouse
	Pinger
} = chAdapter{}

func (a chAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.c.Insert(ctx, table, rows)
}

func (a chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (a chAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.c.Exec(ctx, sql, args...)
}

func (a chAdapter) Ping(ctx context.Context) error {
	if a.c == nil {
		return errors.New("store: clickhouse not open")
	}
	return a.c.Ping(ctx)
}

func (a chAdapter) Close() error { return a.c.Close() }

// chRows drops the driver's Close error to fit Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
