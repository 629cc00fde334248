// Package module wires the catalog endpoints into the API
package module

import (
	modkit "aspectscan/internal/modkit"
	"aspectscan/internal/modkit/httpkit"

	cathttp "aspectscan/internal/services/api/catalog/http"
)

// Module serves the body and aspect catalog; it needs no stores
type Module struct{ b modkit.Built }

// New constructs the catalog module
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	return &Module{b: modkit.Build("catalog", "/catalog", opts...)}
}

// MountRoutes mounts the catalog routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) { m.b.Mount(r, cathttp.Register) }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns nil; catalog lookups are plain functions
func (m *Module) Ports() any { return nil }
