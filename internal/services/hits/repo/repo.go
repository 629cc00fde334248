// Package repo stores hits in clickhouse
package repo

import (
	"context"
	"errors"
	"fmt"

	"aspectscan/internal/core/hit"
	"aspectscan/internal/platform/store"
	"aspectscan/internal/services/hits/domain"
)

// Table is the clickhouse table holding hits
const Table = "aspect_hits"

const schema = `
CREATE TABLE IF NOT EXISTS ` + Table + ` (
	run_id     String,
	a          LowCardinality(String),
	b          LowCardinality(String),
	aspect     LowCardinality(String),
	target     Float64,
	exact      DateTime64(3, 'UTC'),
	orb        Float64,
	orb_limit  Float64,
	applying   Bool,
	severity   Float64,
	band       LowCardinality(String),
	weight     Float64,
	retrograde Bool,
	station    Bool,
	angular    Bool,
	partile    Bool,
	split      Bool
) ENGINE = MergeTree
ORDER BY (run_id, exact)`

// Storage is the hits persistence surface
type Storage interface {
	WriteBatch(ctx context.Context, runID string, hs []hit.Hit) error
	ListRun(ctx context.Context, runID string, limit int) ([]domain.Row, error)
}

// CH implements Storage over the store clickhouse seam
type CH struct {
	db store.Clickhouse
}

var _ Storage = (*CH)(nil)

// NewCH wraps an open clickhouse seam
func NewCH(db store.Clickhouse) *CH {
	if db == nil {
		panic("hits repo requires a non nil clickhouse")
	}
	return &CH{db: db}
}

// EnsureSchema creates the hits table when missing
func (c *CH) EnsureSchema(ctx context.Context) error {
	if err := c.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure %s: %w", Table, err)
	}
	return nil
}

// WriteBatch inserts every hit of a run in one batch
func (c *CH) WriteBatch(ctx context.Context, runID string, hs []hit.Hit) error {
	if len(hs) == 0 {
		return nil
	}
	if runID == "" {
		return errors.New("hits: empty run id")
	}
	rows := make([][]any, 0, len(hs))
	for _, h := range hs {
		r := ToRow(runID, h)
		rows = append(rows, []any{
			r.RunID, r.A, r.B, r.Aspect, r.Target, r.Exact, r.Orb, r.OrbLimit,
			r.Applying, r.Severity, r.Band, r.Weight,
			r.Retrograde, r.Station, r.Angular, r.Partile, r.Split,
		})
	}
	return c.db.Insert(ctx, Table, rows)
}

// ListRun implements Storage
func (c *CH) ListRun(ctx context.Context, runID string, limit int) ([]domain.Row, error) {
	const q = `
SELECT run_id, a, b, aspect, target, exact, orb, orb_limit, applying,
	severity, band, weight, retrograde, station, angular, partile, split
FROM ` + Table + `
WHERE run_id = ?
ORDER BY severity DESC, exact ASC, a ASC, b ASC, aspect ASC
LIMIT ?`

	rs, err := c.db.Query(ctx, q, runID, limit)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	out := make([]domain.Row, 0, limit)
	for rs.Next() {
		var r domain.Row
		if err := rs.Scan(
			&r.RunID, &r.A, &r.B, &r.Aspect, &r.Target, &r.Exact, &r.Orb, &r.OrbLimit,
			&r.Applying, &r.Severity, &r.Band, &r.Weight,
			&r.Retrograde, &r.Station, &r.Angular, &r.Partile, &r.Split,
		); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rs.Err()
}

// ToRow flattens a hit into its stored shape
func ToRow(runID string, h hit.Hit) domain.Row {
	return domain.Row{
		RunID:      runID,
		A:          h.A.String(),
		B:          h.B.String(),
		Aspect:     h.Aspect.Label(),
		Target:     h.Target,
		Exact:      h.Exact.UTC(),
		Orb:        h.Orb,
		OrbLimit:   h.OrbLimit,
		Applying:   h.Applying,
		Severity:   h.Severity,
		Band:       h.Band.String(),
		Weight:     h.Weight,
		Retrograde: h.Flags.Retrograde,
		Station:    h.Flags.Station,
		Angular:    h.Flags.Angular,
		Partile:    h.Flags.Partile,
		Split:      h.Flags.Split,
	}
}
