// Package scan runs the aspect scan: sampling, bracketing, refinement,
// classification, scoring and ranking over a worker pool
package scan

import (
	"errors"
	"fmt"
	"time"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/ephem"
	"aspectscan/internal/core/orb"
	"aspectscan/internal/core/rank"
	"aspectscan/internal/core/refine"
)

// ErrInvalidConfig rejects a scan before any sampling happens
var ErrInvalidConfig = errors.New("invalid scan config")

// Config is one scan request. It is read-only to the engine.
type Config struct {
	// Objects are paired with each other (and with Midpoints) when Pairs is empty
	Objects   []catalog.Body  `json:"objects,omitempty"`
	Midpoints []catalog.Point `json:"midpoints,omitempty"`
	// Pairs, when set, replaces the Objects/Midpoints combinations
	Pairs []catalog.Pair `json:"pairs,omitempty"`

	Aspects   []catalog.Aspect `json:"aspects,omitempty"`
	Harmonics []int            `json:"harmonics,omitempty"`

	Start time.Time     `json:"start"`
	End   time.Time     `json:"end"`
	Step  time.Duration `json:"step"`

	Policy orb.Policy  `json:"policy"`
	Order  rank.Order  `json:"order"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Frame  ephem.Frame `json:"frame"`

	// Fixed pins bodies (chart angles, natal positions) at constant longitudes
	Fixed map[catalog.Body]float64 `json:"fixed,omitempty"`
	// AsOf is the reference instant for applying/separating; zero means Start
	AsOf time.Time `json:"as_of,omitzero"`
	// Tolerance zero value selects refine.DefaultTolerance
	Tolerance refine.Tolerance `json:"tolerance"`
	// OrbWindows also solves when each hit enters and leaves its orb
	OrbWindows bool `json:"orb_windows"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Samples is the grid size the config implies
func (c Config) Samples() int {
	if c.Step <= 0 || !c.Start.Before(c.End) {
		return 0
	}
	return int(c.End.Sub(c.Start)/c.Step) + 2
}

// Validate checks everything that can be checked without an oracle.
// maxSamples <= 0 disables the grid size bound.
func (c Config) Validate(maxSamples int) error {
	switch {
	case c.Start.IsZero() || c.End.IsZero():
		return invalid("window start and end are required")
	case !c.Start.Before(c.End):
		return invalid("window start %s must be before end %s", c.Start.Format(time.RFC3339), c.End.Format(time.RFC3339))
	case c.Step <= 0:
		return invalid("step must be > 0, got %s", c.Step)
	case c.Limit < 0 || c.Offset < 0:
		return invalid("limit and offset must be >= 0")
	case c.Order > rank.ByOrb:
		return invalid("unknown order %d", c.Order)
	case len(c.Aspects) == 0 && len(c.Harmonics) == 0:
		return invalid("at least one aspect or harmonic is required")
	}
	if maxSamples > 0 && c.Samples() > maxSamples {
		return invalid("window/step yields %d samples (max %d)", c.Samples(), maxSamples)
	}
	if _, err := catalog.Expand(c.Aspects, c.Harmonics); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Frame.Validate(); err != nil {
		return invalid("frame: %v", err)
	}
	if err := c.Policy.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Tolerance != (refine.Tolerance{}) {
		if err := c.Tolerance.Validate(); err != nil {
			return invalid("%v", err)
		}
	}
	for b := range c.Fixed {
		if !b.Valid() {
			return invalid("fixed point has invalid body %d", uint8(b))
		}
	}

	pairs := c.ResolvedPairs()
	if len(pairs) == 0 {
		return invalid("need at least two objects or one pair")
	}
	for _, p := range pairs {
		if !p.A.Valid() || !p.B.Valid() {
			return invalid("pair %v has an invalid point", p)
		}
		if p.A == p.B {
			return invalid("pair %s repeats a point", p)
		}
	}
	return nil
}

// ResolvedPairs expands Objects and Midpoints into unique unordered pairs, or
// returns the de-duplicated explicit Pairs. Order is deterministic.
func (c Config) ResolvedPairs() []catalog.Pair {
	seen := make(map[catalog.Pair]struct{})
	var out []catalog.Pair
	add := func(a, b catalog.Point) {
		p := catalog.NewPair(a, b)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	if len(c.Pairs) > 0 {
		for _, p := range c.Pairs {
			add(p.A, p.B)
		}
		return out
	}

	points := make([]catalog.Point, 0, len(c.Objects)+len(c.Midpoints))
	for _, b := range c.Objects {
		points = append(points, catalog.Single(b))
	}
	points = append(points, c.Midpoints...)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i] == points[j] {
				continue
			}
			add(points[i], points[j])
		}
	}
	return out
}

// Points lists every distinct point the pairs touch
func Points(pairs []catalog.Pair) []catalog.Point {
	seen := make(map[catalog.Point]struct{}, len(pairs)*2)
	var out []catalog.Point
	for _, p := range pairs {
		for _, pt := range []catalog.Point{p.A, p.B} {
			if _, ok := seen[pt]; ok {
				continue
			}
			seen[pt] = struct{}{}
			out = append(out, pt)
		}
	}
	return out
}

func (c Config) tolerance() refine.Tolerance {
	if c.Tolerance == (refine.Tolerance{}) {
		return refine.DefaultTolerance()
	}
	return c.Tolerance
}

func (c Config) asOf() time.Time {
	if c.AsOf.IsZero() {
		return c.Start
	}
	return c.AsOf
}
