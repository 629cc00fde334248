// Package hit defines the engine's output unit
package hit

import (
	"time"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/severity"
)

// Hit is one exact aspect. It is immutable once returned and owned by the caller.
type Hit struct {
	A      catalog.Point       `json:"a"`
	B      catalog.Point       `json:"b"`
	Aspect catalog.AspectAngle `json:"aspect"`
	// Target is the signed residual branch that crossed zero (+angle or -angle)
	Target   float64       `json:"target"`
	Exact    time.Time     `json:"exact"`
	Orb      float64       `json:"orb"`
	OrbLimit float64       `json:"orb_limit"`
	Applying bool          `json:"applying"`
	Severity float64       `json:"severity"`
	Band     severity.Band `json:"band"`
	// Weight is the base weight, used by weighted aggregation
	Weight float64 `json:"weight"`
	Flags  Flags   `json:"flags"`
	// Window is set when orb windows were requested
	Window *Window `json:"window,omitempty"`
	// Meta carries the score factors and raw positions at the exact time
	Meta map[string]float64 `json:"meta,omitempty"`
}

// Flags are the boolean annotations that fed the score
type Flags struct {
	Retrograde bool `json:"retrograde,omitempty"`
	Station    bool `json:"station,omitempty"`
	Angular    bool `json:"angular,omitempty"`
	Partile    bool `json:"partile,omitempty"`
	// Split is set when the bracket was subdivided at a station
	Split bool `json:"split,omitempty"`
}

// Window is the span during which the pair stayed within the orb. A zero
// edge means the scan window ended before the orb was left.
type Window struct {
	Enter time.Time `json:"enter,omitzero"`
	Exit  time.Time `json:"exit,omitzero"`
}

// Pair renders the participants, e.g. "sun-moon"
func (h Hit) Pair() string { return h.A.String() + "-" + h.B.String() }
