package modkit

import (
	"net/http"

	"aspectscan/internal/modkit/httpkit"
	str "aspectscan/internal/platform/strings"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts over the given defaults. Later options win.
func Build(name, prefix string, opts ...Option) Built {
	c := buildCfg{name: name, prefix: prefix}
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   str.MustString(c.name, "module name"),
		Prefix: str.MustPrefix(c.prefix),
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Mount scopes register under the module prefix behind the module middleware
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	r.Route(b.Prefix, func(sub httpkit.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		register(sub)
	})
}
