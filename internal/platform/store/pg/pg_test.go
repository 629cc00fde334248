package pg

import (
	"context"
	"errors"
	"testing"

	"aspectscan/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://bad"}, nil, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpen_PoolError(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &newPool, func(context.Context, *pgxpool.Config) (*pgxpool.Pool, error) {
		return nil, errors.New("pool refused")
	})

	_, err := Open(context.Background(), Config{URL: "postgres://u:p@db:5432/aspectscan"}, nil, nil)
	if err == nil || err.Error() != "pool refused" {
		t.Fatalf("err = %v", err)
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	testkit.Serial(t)

	var seen *pgxpool.Config
	testkit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return &pgxpool.Pool{}, nil
	})

	mutated := false
	p, err := Open(context.Background(), Config{
		URL:      "postgres://u:p@db:5432/aspectscan?sslmode=disable",
		AppName:  "aspectscan-api",
		MaxConns: 6,
		SlowMs:   250,
	}, nil, func(*pgxpool.Config) { mutated = true })
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !mutated || seen.MaxConns != 6 || seen.ConnConfig.RuntimeParams["application_name"] != "aspectscan-api" {
		t.Fatalf("config not applied: mutated=%v max=%d params=%v", mutated, seen.MaxConns, seen.ConnConfig.RuntimeParams)
	}
	if p.SlowMs != 250 || p.Pool == nil {
		t.Fatalf("pg = %+v", p)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}
