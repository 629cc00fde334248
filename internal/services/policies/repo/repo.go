// Package repo provides postgres and in-memory access to stored orb policies
package repo

import (
	"context"
	"errors"
	"sort"
	"sync"

	"aspectscan/internal/modkit/repokit"
	perr "aspectscan/internal/platform/errors"
	"aspectscan/internal/platform/store"
	"aspectscan/internal/services/policies/domain"
)

// Repo is the persistence surface for stored policies
type Repo interface {
	Get(ctx context.Context, id string) (domain.Record, error)
	List(ctx context.Context) ([]domain.Record, error)
}

// queries implements Repo over postgres
type queries struct{ q repokit.Queryer }

// NewPG returns a binder for the postgres repo
func NewPG() repokit.Binder[Repo] {
	return repokit.BindFunc[Repo](func(q repokit.Queryer) Repo { return &queries{q: q} })
}

const selectPolicies = `
select id, name,
	coalesce(per_object, '{}'::jsonb),
	coalesce(per_aspect, '{}'::jsonb),
	coalesce(adaptive, '{}'::jsonb),
	updated_at
from orb_policies
`

func scanRecord(row store.Row) (domain.Record, error) {
	var rec domain.Record
	err := row.Scan(&rec.ID, &rec.Name, &rec.PerObject, &rec.PerAspect, &rec.Adaptive, &rec.UpdatedAt)
	return rec, err
}

func (r *queries) Get(ctx context.Context, id string) (domain.Record, error) {
	rec, err := store.One(ctx, r.q, scanRecord, selectPolicies+"where id = $1", id)
	if err != nil {
		if errors.Is(err, perr.ErrNotFound) {
			return domain.Record{}, perr.NotFoundf("orb policy %q not found", id)
		}
		return domain.Record{}, perr.FromPostgres(err, "orb policies query failed")
	}
	return rec, nil
}

func (r *queries) List(ctx context.Context) ([]domain.Record, error) {
	recs, err := store.Many(ctx, r.q, scanRecord, selectPolicies+"order by id asc")
	if err != nil {
		return nil, perr.FromPostgres(err, "orb policies query failed")
	}
	return recs, nil
}

type txRepo struct {
	db repokit.TxRunner
	b  repokit.Binder[Repo]
}

// Tx adapts a binder to Repo, running each call in its own transaction
func Tx(db repokit.TxRunner, b repokit.Binder[Repo]) Repo {
	if db == nil {
		panic("policies repo requires a non nil TxRunner")
	}
	return txRepo{db: db, b: b}
}

func (r txRepo) Get(ctx context.Context, id string) (rec domain.Record, err error) {
	err = repokit.WithTx(ctx, r.db, func(q repokit.Queryer) error {
		var e error
		rec, e = repokit.MustBind(r.b, q).Get(ctx, id)
		return e
	})
	return rec, err
}

func (r txRepo) List(ctx context.Context) (recs []domain.Record, err error) {
	err = repokit.WithTx(ctx, r.db, func(q repokit.Queryer) error {
		var e error
		recs, e = repokit.MustBind(r.b, q).List(ctx)
		return e
	})
	return recs, err
}

// Memory is a Repo over a fixed set of records, for the CLI and tests
type Memory struct {
	mu   sync.RWMutex
	recs map[string]domain.Record
}

// NewMemory seeds an in-memory repo
func NewMemory(recs ...domain.Record) *Memory {
	m := &Memory{recs: make(map[string]domain.Record, len(recs))}
	for _, r := range recs {
		m.recs[r.ID] = r
	}
	return m
}

// Put adds or replaces a record
func (m *Memory) Put(rec domain.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[rec.ID] = rec
}

// Get implements Repo
func (m *Memory) Get(_ context.Context, id string) (domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.recs[id]
	if !ok {
		return domain.Record{}, perr.NotFoundf("orb policy %q not found", id)
	}
	return rec, nil
}

// List implements Repo
func (m *Memory) List(_ context.Context) ([]domain.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Record, 0, len(m.recs))
	for _, r := range m.recs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
