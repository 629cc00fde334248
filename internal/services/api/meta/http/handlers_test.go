package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aspectscan/internal/core/tables"
	phttp "aspectscan/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, d Deps, path string) map[string]any {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("%s: status %d body %s", path, rec.Code, rec.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func TestHealth(t *testing.T) {
	got := serve(t, Deps{ServiceName: "aspectscan-api", StartedAt: time.Now().Add(-90 * time.Second)}, "/health")
	if got["ok"] != true || got["service"] != "aspectscan-api" {
		t.Fatalf("health = %v", got)
	}
	if up, _ := got["uptime_s"].(float64); up < 89 {
		t.Fatalf("uptime_s = %v", got["uptime_s"])
	}
}

func TestVersion(t *testing.T) {
	got := serve(t, Deps{}, "/version")
	if len(got) == 0 {
		t.Fatal("empty build info")
	}
}

func TestReady_SkipsMissingAndDegradesOnFailure(t *testing.T) {
	got := serve(t, Deps{}, "/ready")
	if got["status"] != "ok" {
		t.Fatalf("no stores should be ok, got %v", got)
	}

	got = serve(t, Deps{PG: pinger{}, CH: pinger{err: errors.New("down")}}, "/ready")
	if got["status"] != "degraded" {
		t.Fatalf("ready = %v", got)
	}
	checks, _ := got["checks"].([]any)
	if len(checks) != 2 {
		t.Fatalf("checks = %v", got["checks"])
	}
	if ch, _ := checks[1].(map[string]any); ch["status"] != "fail" || ch["error"] != "down" {
		t.Fatalf("ch check = %v", checks[1])
	}

	got = serve(t, Deps{PG: struct{}{}}, "/ready")
	if pg, _ := got["checks"].([]any)[0].(map[string]any); pg["status"] != "unknown" {
		t.Fatalf("pg without Ping = %v", got)
	}
}

func TestTables(t *testing.T) {
	got := serve(t, Deps{Tables: tables.MustLoad()}, "/tables")
	if got["tables_version"] != float64(1) {
		t.Fatalf("tables = %v", got)
	}
	orbs, ok := got["default_orbs"].(map[string]any)
	if !ok || orbs["conjunction"] == nil {
		t.Fatalf("default_orbs = %v", got["default_orbs"])
	}
}

func TestModules(t *testing.T) {
	got := serve(t, Deps{}, "/modules")
	if mods, _ := got["modules"].([]any); mods == nil || len(mods) != 0 {
		t.Fatalf("no lister should give an empty list, got %v", got)
	}

	got = serve(t, Deps{Modules: func() []string { return []string{"catalog", "scan"} }}, "/modules")
	mods, _ := got["modules"].([]any)
	if len(mods) != 2 || mods[0] != "catalog" || mods[1] != "scan" {
		t.Fatalf("modules = %v", got)
	}
}
