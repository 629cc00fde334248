// Package http serves process metadata: liveness, store readiness, build,
// scoring tables and mounted modules
package http

import (
	"context"
	"net/http"
	"time"

	"aspectscan/internal/core/tables"
	"aspectscan/internal/core/version"
	"aspectscan/internal/modkit/httpkit"
)

// Deps are the handler dependencies. PG and CH may be nil or anything with
// Ping(ctx) error; stores without Ping report "unknown".
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Tables      *tables.Tables
	Modules     func() []string
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Tables == nil {
		d.Tables = tables.MustLoad()
	}
	httpkit.Get(r, "/health", func(*http.Request) (any, error) { return d.health(time.Now()), nil })
	httpkit.Get(r, "/ready", func(req *http.Request) (any, error) { return d.ready(req.Context()), nil })
	httpkit.Get(r, "/version", func(*http.Request) (any, error) { return version.Info(), nil })
	httpkit.Get(r, "/tables", func(*http.Request) (any, error) { return d.tables(), nil })
	httpkit.Get(r, "/modules", func(*http.Request) (any, error) { return d.modules(), nil })
}

// HealthResponse reports liveness and uptime
type HealthResponse struct {
	OK      bool      `json:"ok"`
	Service string    `json:"service"`
	Started time.Time `json:"started"`
	UptimeS int64     `json:"uptime_s"`
}

func (d Deps) health(now time.Time) HealthResponse {
	return HealthResponse{
		OK:      true,
		Service: d.ServiceName,
		Started: d.StartedAt.UTC(),
		UptimeS: int64(now.Sub(d.StartedAt) / time.Second),
	}
}

// Check is the outcome of pinging one store: ok, fail, skipped or unknown
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReadyResponse is ok unless some configured store failed its ping
type ReadyResponse struct {
	Status string  `json:"status"`
	Checks []Check `json:"checks"`
}

func (d Deps) ready(ctx context.Context) ReadyResponse {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out := ReadyResponse{Status: "ok"}
	for _, s := range []struct {
		name  string
		store any
	}{{"pg", d.PG}, {"ch", d.CH}} {
		c := ping(ctx, s.name, s.store)
		if c.Status == "fail" {
			out.Status = "degraded"
		}
		out.Checks = append(out.Checks, c)
	}
	return out
}

func ping(ctx context.Context, name string, store any) Check {
	switch p := store.(type) {
	case nil:
		return Check{Name: name, Status: "skipped"}
	case interface{ Ping(context.Context) error }:
		if err := p.Ping(ctx); err != nil {
			return Check{Name: name, Status: "fail", Error: err.Error()}
		}
		return Check{Name: name, Status: "ok"}
	}
	return Check{Name: name, Status: "unknown"}
}

// TablesResponse exposes the scoring tables scans run against
type TablesResponse struct {
	Version     int                `json:"tables_version"`
	DefaultOrbs map[string]float64 `json:"default_orbs"`
	Modifiers   tables.Modifiers   `json:"modifiers"`
	Bands       tables.Bands       `json:"bands"`
	Build       version.BuildInfo  `json:"build"`
}

func (d Deps) tables() TablesResponse {
	return TablesResponse{
		Version:     d.Tables.Version,
		DefaultOrbs: d.Tables.Orbs.Defaults,
		Modifiers:   d.Tables.Modifiers,
		Bands:       d.Tables.Bands,
		Build:       version.Info(),
	}
}

// ModulesResponse lists the modules mounted on this process
type ModulesResponse struct {
	Modules []string `json:"modules"`
}

func (d Deps) modules() ModulesResponse {
	out := ModulesResponse{Modules: []string{}}
	if d.Modules != nil {
		out.Modules = append(out.Modules, d.Modules()...)
	}
	return out
}
