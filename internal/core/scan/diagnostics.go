package scan

import (
	"errors"
	"time"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/ephem"
	"aspectscan/internal/core/hit"
	"aspectscan/internal/core/refine"
)

// Kind classifies a degraded region of a scan
type Kind string

const (
	KindOracleUnavailable Kind = "oracle_unavailable"
	KindNonConvergent     Kind = "non_convergent"
)

// Diagnostic reports a region the scan could not resolve. Pair fields are
// zero for grid-level gaps.
type Diagnostic struct {
	Kind   Kind          `json:"kind"`
	A      catalog.Point `json:"a,omitzero"`
	B      catalog.Point `json:"b,omitzero"`
	Aspect string        `json:"aspect,omitempty"`
	From   time.Time     `json:"from"`
	To     time.Time     `json:"to"`
	Err    string        `json:"error"`
}

// Stats counts the work a scan did
type Stats struct {
	Samples  int `json:"samples"`
	Missing  int `json:"missing"`
	Triples  int `json:"triples"`
	Brackets int `json:"brackets"`
	Dropped  int `json:"dropped"`
	Hits     int `json:"hits"`
}

// Result is one page of ranked hits plus everything needed to judge it
type Result struct {
	Hits        []hit.Hit    `json:"hits"`
	Total       int          `json:"total"`
	Limit       int          `json:"limit"`
	Offset      int          `json:"offset"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Stats       Stats        `json:"stats"`
}

// kindOf maps a bracket failure to its diagnostic kind. Any failure that is
// not a solver failure came from the oracle, typed or not.
func kindOf(err error) Kind {
	if errors.Is(err, refine.ErrNonConvergent) && !errors.Is(err, ephem.ErrOracleUnavailable) {
		return KindNonConvergent
	}
	return KindOracleUnavailable
}

// Count tallies diagnostics per kind
func Count(diags []Diagnostic) map[Kind]int {
	out := make(map[Kind]int, 2)
	for _, d := range diags {
		out[d.Kind]++
	}
	return out
}
