//go:build integration_pg
// +build integration_pg

package repo

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	perr "aspectscan/internal/platform/errors"
	"aspectscan/internal/platform/store"

	"github.com/rs/zerolog"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) (dsn string, stop func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)

	req := tc.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(2 * time.Minute),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		cancel()
		t.Fatalf("failed to start postgres container: %v", err)
	}
	host, err := c.Host(ctx)
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get container host: %v", err)
	}
	mp, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = c.Terminate(context.Background())
		cancel()
		t.Fatalf("failed to get mapped port: %v", err)
	}

	dsn = fmt.Sprintf("postgres://postgres:postgres@%s:%s/postgres?sslmode=disable", host, mp.Port())
	return dsn, func() {
		_ = c.Terminate(context.Background())
		cancel()
	}
}

func TestPG_GetList_Integration(t *testing.T) {
	dsn, stop := startPostgres(t)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	st, err := store.Open(ctx, store.Config{
		PG: store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	}, store.WithLogger(zerolog.New(io.Discard)))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })

	if _, err := st.PG.Exec(ctx, `
		CREATE TABLE orb_policies (
			id         text PRIMARY KEY,
			name       text NOT NULL,
			per_object jsonb,
			per_aspect jsonb,
			adaptive   jsonb,
			updated_at timestamptz NOT NULL DEFAULT now()
		)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := st.PG.Exec(ctx, `
		INSERT INTO orb_policies (id, name, per_object, per_aspect, adaptive) VALUES
			('tight', 'Tight', '{"moon": 6}', '{"square": 5}', '{"luminaries": 1.1}'),
			('bare', 'Bare', NULL, NULL, NULL)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	r := Tx(st.PG, NewPG())

	rec, err := r.Get(ctx, "tight")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec.PerObject["moon"] != 6 || rec.PerAspect["square"] != 5 || rec.Adaptive["luminaries"] != 1.1 {
		t.Fatalf("record = %+v", rec)
	}
	if rec.UpdatedAt.IsZero() {
		t.Fatalf("updated_at not scanned")
	}

	bare, err := r.Get(ctx, "bare")
	if err != nil {
		t.Fatalf("Get bare: %v", err)
	}
	if len(bare.PerObject) != 0 || len(bare.Adaptive) != 0 {
		t.Fatalf("null jsonb should scan to empty maps: %+v", bare)
	}

	if _, err := r.Get(ctx, "missing"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}

	list, err := r.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "bare" || list[1].ID != "tight" {
		t.Fatalf("List = %+v", list)
	}
}
