// Package sampler turns oracle positions into pair separations and signed rates
package sampler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"aspectscan/internal/core/angle"
	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/ephem"
)

// DefaultDiffStep is the half-width of the central difference used when the oracle has no speeds
const DefaultDiffStep = 30 * time.Minute

const day = float64(24 * time.Hour)

// Sampler reads positions for points through an oracle. It owns no astronomy.
type Sampler struct {
	oracle   ephem.Oracle
	frame    ephem.Frame
	diffStep time.Duration
}

// New builds a sampler; diffStep <= 0 selects DefaultDiffStep
func New(o ephem.Oracle, frame ephem.Frame, diffStep time.Duration) *Sampler {
	if diffStep <= 0 {
		diffStep = DefaultDiffStep
	}
	return &Sampler{oracle: o, frame: frame, diffStep: diffStep}
}

// State is a point's longitude and signed speed (deg/day)
type State struct {
	Longitude float64
	Speed     float64
}

// Sample is a pair observation at one instant
type Sample struct {
	T          time.Time
	A, B       State
	Separation float64 // WrapDelta(A, B)
	Rate       float64 // d(Separation)/dt in deg/day
}

// Residual is the wrap-safe distance of the separation from target
func (s Sample) Residual(target float64) float64 {
	return angle.WrapDelta(s.Separation, target)
}

// Pair combines two point states
func Pair(t time.Time, a, b State) Sample {
	return Sample{T: t, A: a, B: b, Separation: angle.WrapDelta(a.Longitude, b.Longitude), Rate: a.Speed - b.Speed}
}

// Sample observes a and b at t
func (s *Sampler) Sample(ctx context.Context, a, b catalog.Point, t time.Time) (Sample, error) {
	st, err := s.States(ctx, []catalog.Point{a, b}, t)
	if err != nil {
		return Sample{}, err
	}
	return Pair(t, st[a], st[b]), nil
}

// States resolves every point at t with one oracle call (three when speeds must be differenced)
func (s *Sampler) States(ctx context.Context, points []catalog.Point, t time.Time) (map[catalog.Point]State, error) {
	bodies := bodiesOf(points)
	pos, err := s.oracle.Positions(ctx, bodies, t, s.frame)
	if err != nil {
		return nil, err
	}
	for _, b := range bodies {
		if _, ok := pos[b]; !ok {
			return nil, ephem.Unavailable(b, t, errors.New("missing from oracle result"))
		}
	}

	speeds, err := s.speeds(ctx, bodies, pos, t)
	if err != nil {
		return nil, err
	}

	out := make(map[catalog.Point]State, len(points))
	for _, p := range points {
		if p.IsMidpoint() {
			out[p] = State{
				Longitude: angle.ModularAverage(pos[p.A].Longitude, pos[p.B].Longitude),
				Speed:     (speeds[p.A] + speeds[p.B]) / 2,
			}
			continue
		}
		out[p] = State{Longitude: pos[p.A].Longitude, Speed: speeds[p.A]}
	}
	return out, nil
}

// speeds takes oracle speeds and falls back to a central difference for bodies without one
func (s *Sampler) speeds(ctx context.Context, bodies []catalog.Body, pos map[catalog.Body]ephem.Position, t time.Time) (map[catalog.Body]float64, error) {
	out := make(map[catalog.Body]float64, len(bodies))
	var missing []catalog.Body
	for _, b := range bodies {
		if p := pos[b]; p.SpeedKnown {
			out[b] = p.Speed
			continue
		}
		missing = append(missing, b)
	}
	if len(missing) == 0 {
		return out, nil
	}

	lo, err := s.oracle.Positions(ctx, missing, t.Add(-s.diffStep), s.frame)
	if err != nil {
		return nil, fmt.Errorf("central difference: %w", err)
	}
	hi, err := s.oracle.Positions(ctx, missing, t.Add(s.diffStep), s.frame)
	if err != nil {
		return nil, fmt.Errorf("central difference: %w", err)
	}
	span := 2 * float64(s.diffStep) / day
	for _, b := range missing {
		out[b] = angle.WrapDelta(hi[b].Longitude, lo[b].Longitude) / span
	}
	return out, nil
}

// Grid is a sampled time series for a set of points. States[i] is nil when
// the oracle failed at Times[i]; Errs[i] then holds the failure.
type Grid struct {
	Times  []time.Time
	States []map[catalog.Point]State
	Errs   []error
}

// Missing reports whether sample i is absent
func (g *Grid) Missing(i int) bool { return g.States[i] == nil }

// Pair returns the pair sample at index i; ok is false when it is missing
func (g *Grid) Pair(i int, a, b catalog.Point) (Sample, bool) {
	st := g.States[i]
	if st == nil {
		return Sample{}, false
	}
	return Pair(g.Times[i], st[a], st[b]), true
}

// Times lays out start, start+step, ... and always ends exactly at end
func Times(start, end time.Time, step time.Duration) []time.Time {
	if !start.Before(end) || step <= 0 {
		return nil
	}
	var out []time.Time
	for t := start; t.Before(end); t = t.Add(step) {
		out = append(out, t)
	}
	return append(out, end)
}

// Grid samples every point at every time on up to workers goroutines. Oracle
// failures are recorded per time, never returned; only cancellation is.
func (s *Sampler) Grid(ctx context.Context, points []catalog.Point, times []time.Time, workers int) (*Grid, error) {
	g := &Grid{
		Times:  times,
		States: make([]map[catalog.Point]State, len(times)),
		Errs:   make([]error, len(times)),
	}
	if workers < 1 {
		workers = 1
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range times {
		eg.Go(func() error {
			st, err := s.States(ctx, points, times[i])
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				g.Errs[i] = err
				return nil
			}
			g.States[i] = st
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return g, nil
}

func bodiesOf(points []catalog.Point) []catalog.Body {
	seen := make(map[catalog.Body]struct{}, len(points)*2)
	var out []catalog.Body
	for _, p := range points {
		for _, b := range p.Bodies() {
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	return out
}
