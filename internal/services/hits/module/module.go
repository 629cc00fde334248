// Package module implements the hits service module
package module

import (
	"context"
	"time"

	"aspectscan/internal/modkit"
	"aspectscan/internal/modkit/httpkit"
	"aspectscan/internal/services/hits/domain"
	"aspectscan/internal/services/hits/repo"
	"aspectscan/internal/services/hits/service"
)

// Ports exposed by the hits module. Both are nil when clickhouse is disabled.
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the hits service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new hits module
func New(deps modkit.Deps) *Module {
	m := &Module{deps: deps}
	if deps.CH == nil {
		deps.Log.Info().Msg("hits: clickhouse disabled, persistence off")
		return m
	}

	opts := FromConfig(deps.Cfg)
	storage := repo.NewCH(deps.CH)
	if opts.EnsureSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := storage.EnsureSchema(ctx); err != nil {
			deps.Log.Error().Err(err).Msg("hits: ensure schema failed")
		}
	}

	svc := service.New(storage, service.Config{HardLimit: opts.HardLimit})
	m.ports = Ports{Writer: svc, Query: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "hits" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
