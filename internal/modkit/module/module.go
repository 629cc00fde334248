// Package module holds the module contract and the bootstrap port registry
package module

import phttp "aspectscan/internal/platform/net/http"

// Module is what the API mounts: routes under a prefix, an optional port set and a name
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
