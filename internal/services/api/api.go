// Package api provides the HTTP API for the application
package api

import (
	"time"

	"aspectscan/internal/platform/config"
	"aspectscan/internal/platform/logger"
	phttp "aspectscan/internal/platform/net/http"
	"aspectscan/internal/platform/store"

	"aspectscan/internal/modkit"
	"aspectscan/internal/modkit/httpkit"
	"aspectscan/internal/modkit/module"

	catalogmod "aspectscan/internal/services/api/catalog/module"
	metamod "aspectscan/internal/services/api/meta/module"
	apiscan "aspectscan/internal/services/api/scan/module"

	// worker modules (own the ports the API modules consume)
	hitsmod "aspectscan/internal/services/hits/module"
	policiesmod "aspectscan/internal/services/policies/module"
	scanmod "aspectscan/internal/services/scan/module"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableProfiler bool

	// Registry backs /metrics; nil gets a fresh registry with go and process collectors
	Registry *prometheus.Registry
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}

	reg := opt.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	// worker modules first so their ports can be injected
	policies := policiesmod.New(deps)
	hits := hitsmod.New(deps)
	hp := module.MustPortsOf[hitsmod.Ports](hits)
	pp := module.MustPortsOf[policiesmod.Ports](policies)

	scan := scanmod.New(deps, scanmod.Upstream{
		Policies:   pp.Reader,
		Hits:       hp.Writer,
		Registerer: reg,
	}, scanmod.Options{})

	// scans are CPU bound; cap them per process
	apiCfg := opt.Config.Prefix("API_SCAN_")
	apiScan := apiscan.New(deps,
		modkit.WithPorts(apiscan.Ports{
			Runner:   module.MustPortsOf[scanmod.Ports](scan).Runner,
			Hits:     hp.Query,
			Policies: pp.Reader,
		}),
		modkit.WithMiddlewares(httpkit.Throttle(
			apiCfg.MayInt("MAX_INFLIGHT", 8),
			apiCfg.MayInt("BACKLOG", 32),
			apiCfg.MayDuration("BACKLOG_WAIT", 10*time.Second),
		)),
	)

	mods := []module.Module{
		metamod.New(deps),
		catalogmod.New(deps),
		policies,
		hits,
		scan,
		apiScan,
	}

	origins := opt.Config.MayCSV("API_CORS_ORIGINS", nil)

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(origins...), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
