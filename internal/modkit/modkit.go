// Package modkit assembles API modules from shared deps and build options
package modkit

import "aspectscan/internal/modkit/module"

// Module is the surface the API mounts: routes, ports and a name
type Module = module.Module
