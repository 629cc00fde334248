// Package http provides http transport for scans
package http

import (
	stdhttp "net/http"
	"strconv"

	"aspectscan/internal/modkit/httpkit"
	perr "aspectscan/internal/platform/errors"
	hitsdom "aspectscan/internal/services/hits/domain"
	policydom "aspectscan/internal/services/policies/domain"
	"aspectscan/internal/services/scan/domain"
)

// Deps are the ports the handlers call; Hits and Policies may be nil
type Deps struct {
	Runner   domain.RunnerPort
	Hits     hitsdom.QueryPort
	Policies policydom.ReaderPort
}

// Register mounts scan endpoints on the given router
func Register(r httpkit.Router, d Deps) {
	domain.RegisterValidators()
	h := &handlers{deps: d}

	// one page of hits plus diagnostics
	httpkit.PostJSON[domain.Request](r, "/", h.run)

	// daily or monthly bins over the full hit list
	httpkit.PostJSON[domain.CompositeRequest](r, "/composite", h.composite)

	// persisted hits of a past run
	httpkit.Get(r, "/runs/{id}/hits", h.runHits)

	// stored orb policies
	httpkit.Get(r, "/policies", h.policies)
}

type handlers struct{ deps Deps }

func (h *handlers) run(r *stdhttp.Request, in domain.Request) (any, error) {
	return h.deps.Runner.Run(r.Context(), in)
}

func (h *handlers) composite(r *stdhttp.Request, in domain.CompositeRequest) (any, error) {
	return h.deps.Runner.Composite(r.Context(), in)
}

func (h *handlers) runHits(r *stdhttp.Request) (any, error) {
	if h.deps.Hits == nil {
		return nil, perr.Unavailablef("hit persistence is disabled")
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("limit must be an integer"), "limit")
		}
		limit = n
	}
	return h.deps.Hits.ListRun(r.Context(), httpkit.Param(r, "id"), limit)
}

func (h *handlers) policies(r *stdhttp.Request) (any, error) {
	if h.deps.Policies == nil {
		return nil, perr.Unavailablef("stored policies are disabled")
	}
	return h.deps.Policies.List(r.Context())
}
