// Package module provides the stored orb policy module
package module

import (
	"aspectscan/internal/modkit"
	"aspectscan/internal/modkit/httpkit"
	"aspectscan/internal/services/policies/domain"
	"aspectscan/internal/services/policies/repo"
	"aspectscan/internal/services/policies/service"
)

// Ports exposed by the policies module
type Ports struct {
	Reader domain.ReaderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the policies module. Without postgres the module serves an
// empty in-memory repo, so every stored policy lookup is a not found.
func New(deps modkit.Deps) *Module {
	var r repo.Repo = repo.NewMemory()
	if deps.PG != nil {
		r = repo.Tx(deps.PG, repo.NewPG())
	} else {
		deps.Log.Warn().Msg("policies: postgres disabled, stored policies unavailable")
	}

	m := &Module{deps: deps}
	m.ports = Ports{Reader: service.New(r)}
	return m
}

// Name implements modkit.Module
func (m *Module) Name() string { return "policies" }

// Ports implements modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
