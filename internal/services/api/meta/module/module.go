// Package module wires the meta endpoints into the API
package module

import (
	"time"

	"aspectscan/internal/core/tables"
	"aspectscan/internal/core/version"
	modkit "aspectscan/internal/modkit"
	"aspectscan/internal/modkit/httpkit"
	"aspectscan/internal/modkit/module"

	metahttp "aspectscan/internal/services/api/meta/http"
)

// Module serves health, readiness, build and table metadata
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs the meta module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	d := metahttp.Deps{
		ServiceName: version.ServiceName,
		StartedAt:   time.Now(),
		Tables:      tables.MustLoad(),
		Modules:     module.Names,
		PG:          deps.PG,
		CH:          deps.CH,
	}
	return &Module{b: modkit.Build("meta", "/meta", opts...), deps: d}
}

// MountRoutes mounts the meta routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) { metahttp.Register(sub, m.deps) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns nil; meta exposes no ports
func (m *Module) Ports() any { return nil }
