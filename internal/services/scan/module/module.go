// Package module wires the scan engine and service and exposes the runner port
package module

import (
	"time"

	"aspectscan/internal/core/ephem"
	"aspectscan/internal/core/scan"
	"aspectscan/internal/core/tables"
	"aspectscan/internal/modkit"
	"aspectscan/internal/modkit/httpkit"
	"aspectscan/internal/platform/logger"
	hitsdom "aspectscan/internal/services/hits/domain"
	policydom "aspectscan/internal/services/policies/domain"
	"aspectscan/internal/services/scan/domain"
	"aspectscan/internal/services/scan/service"

	"github.com/prometheus/client_golang/prometheus"
)

// Ports exposed by the scan module
type Ports struct {
	Runner domain.RunnerPort
}

// Upstream are the ports this module consumes; nil entries disable the feature
type Upstream struct {
	Policies policydom.ReaderPort
	Hits     hitsdom.WriterPort
	// Registerer receives the scan metrics; nil keeps them unregistered
	Registerer prometheus.Registerer
	// Oracle replaces the built-in mean element oracle
	Oracle ephem.Oracle
}

// Module defines the scan module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the scan module. Non-zero overrides win over config.
func New(deps modkit.Deps, up Upstream, overrides Options) *Module {
	opts := FromConfig(deps.Cfg)
	if overrides.Workers != 0 {
		opts.Workers = overrides.Workers
	}
	if overrides.DefaultStep != 0 {
		opts.DefaultStep = overrides.DefaultStep
	}
	if overrides.Persist {
		opts.Persist = true
	}
	if overrides.CacheSize != 0 {
		opts.CacheSize = overrides.CacheSize
	}

	oracle := up.Oracle
	if oracle == nil {
		oracle = ephem.Memo(ephem.NewMeanElements(), ephem.NewMapCache(opts.CacheSize))
	}

	log := logger.Named("scan")
	engine, err := scan.New(oracle, tables.MustLoad(), scan.Options{
		Workers:    opts.Workers,
		MaxSamples: opts.MaxSamples,
		Log:        logger.Get(),
	})
	if err != nil {
		panic("scan module: " + err.Error())
	}

	svcOpts := []service.Option{
		service.WithLogger(*log),
		service.WithMetrics(service.NewMetrics(up.Registerer)),
	}
	if up.Policies != nil {
		svcOpts = append(svcOpts, service.WithPolicies(up.Policies))
	}
	if up.Hits != nil {
		svcOpts = append(svcOpts, service.WithHits(up.Hits))
	}
	svc := service.New(engine, service.Config{
		Tolerance:   opts.Tolerance,
		DefaultStep: opts.DefaultStep,
		MaxWindow:   time.Duration(opts.MaxWindowDays) * 24 * time.Hour,
		Persist:     opts.Persist,
	}, svcOpts...)

	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "scan" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
