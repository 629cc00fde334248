// Package module wires the scan endpoints into the API
package module

import (
	modkit "aspectscan/internal/modkit"
	"aspectscan/internal/modkit/httpkit"

	scanhttp "aspectscan/internal/services/api/scan/http"
	hitsdom "aspectscan/internal/services/hits/domain"
	policydom "aspectscan/internal/services/policies/domain"
	scandom "aspectscan/internal/services/scan/domain"
)

// Ports are injected with modkit.WithPorts.
// Runner is required; Hits and Policies are optional and their routes answer 503 without them.
type Ports struct {
	Runner   scandom.RunnerPort
	Hits     hitsdom.QueryPort
	Policies policydom.ReaderPort
}

// Module serves scans, composites and stored hits
type Module struct {
	b     modkit.Built
	ports Ports
}

// New constructs the scan API module; it panics without a Runner
func New(_ modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("scan-api", "/scan", opts...)
	p, _ := b.Ports.(Ports)
	if p.Runner == nil {
		panic("scan API module requires a Runner port (from services/scan)")
	}
	return &Module{b: b, ports: p}
}

// MountRoutes mounts the scan routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(sub httpkit.Router) {
		scanhttp.Register(sub, scanhttp.Deps{
			Runner:   m.ports.Runner,
			Hits:     m.ports.Hits,
			Policies: m.ports.Policies,
		})
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns nil; the scan API only consumes ports
func (m *Module) Ports() any { return nil }
