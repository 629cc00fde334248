// Package refine narrows residual brackets to exact instants with secant steps,
// bisection fallback and a station guard
package refine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"aspectscan/internal/core/angle"
)

// ErrNonConvergent is returned when a bracket exhausts MaxIter without meeting either tolerance
var ErrNonConvergent = errors.New("refinement did not converge")

// ErrNoBracket is returned by Crossing when the end values do not straddle zero
var ErrNoBracket = errors.New("values do not bracket a zero")

// Tolerance bounds one refinement
type Tolerance struct {
	// Angle: |residual| below this (degrees) is exact
	Angle float64 `json:"angle"`
	// Time: a bracket narrower than this is exact
	Time time.Duration `json:"time"`
	// MaxIter bounds iterations per bracket
	MaxIter int `json:"max_iter"`
	// Shrink is the width fraction a secant step must reach, else the next step bisects
	Shrink float64 `json:"shrink"`
	// Probes is the number of interior rate probes per bracket for the station guard
	Probes int `json:"probes"`
}

// DefaultTolerance converges to a micro-degree or one second
func DefaultTolerance() Tolerance {
	return Tolerance{Angle: 1e-6, Time: time.Second, MaxIter: 64, Shrink: 0.5, Probes: 3}
}

// Validate rejects tolerances that could never terminate
func (t Tolerance) Validate() error {
	switch {
	case !(t.Angle > 0):
		return fmt.Errorf("tolerance angle must be > 0, got %v", t.Angle)
	case t.Time <= 0:
		return fmt.Errorf("tolerance time must be > 0, got %s", t.Time)
	case t.MaxIter < 1:
		return fmt.Errorf("tolerance max_iter must be >= 1, got %d", t.MaxIter)
	case !(t.Shrink > 0 && t.Shrink < 1):
		return fmt.Errorf("tolerance shrink must be in (0,1), got %v", t.Shrink)
	case t.Probes < 0:
		return fmt.Errorf("tolerance probes must be >= 0, got %d", t.Probes)
	}
	return nil
}

// Eval is the residual (degrees) and its rate (deg/day) at T
type Eval struct {
	T        time.Time
	Residual float64
	Rate     float64
}

// Func evaluates the residual at t
type Func func(ctx context.Context, t time.Time) (Eval, error)

// Scalar is any continuous function of time the solver can zero
type Scalar func(ctx context.Context, t time.Time) (float64, error)

// Root is one converged zero
type Root struct {
	T          time.Time
	Residual   float64
	Iterations int
	Bisections int
	// Split is set when the bracket was subdivided at a station
	Split bool
}

// Refiner solves brackets under one tolerance
type Refiner struct {
	tol Tolerance
}

// New binds a validated tolerance
func New(tol Tolerance) (*Refiner, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}
	return &Refiner{tol: tol}, nil
}

// Tolerance returns the bound tolerance
func (r *Refiner) Tolerance() Tolerance { return r.tol }

// Roots returns every genuine residual zero crossing in [lo.T, hi.T], time ordered.
// Interior probes locate rate sign changes; each is bisected to a station and the
// bracket is split there, so a loop that re-crosses the target yields both crossings
// and a station that only grazes it yields none. Oracle failures abandon the bracket.
// Non-convergent sub-brackets are reported in the joined error alongside any roots found.
func (r *Refiner) Roots(ctx context.Context, fn Func, lo, hi Eval) ([]Root, error) {
	if !lo.T.Before(hi.T) {
		return nil, fmt.Errorf("empty bracket %s..%s", lo.T, hi.T)
	}

	knots := make([]Eval, 0, r.tol.Probes+2)
	knots = append(knots, lo)
	width := hi.T.Sub(lo.T)
	for k := 1; k <= r.tol.Probes; k++ {
		t := lo.T.Add(time.Duration(float64(width) * float64(k) / float64(r.tol.Probes+1)))
		e, err := fn(ctx, t)
		if err != nil {
			return nil, err
		}
		knots = append(knots, e)
	}
	knots = append(knots, hi)

	var (
		stations []Eval
		split    bool
	)
	for i := 0; i+1 < len(knots); i++ {
		if i > 0 && knots[i].Rate == 0 {
			// a probe landed on the station itself
			split = true
		}
		if knots[i].Rate*knots[i+1].Rate >= 0 {
			continue
		}
		st, err := r.station(ctx, fn, knots[i], knots[i+1])
		if err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	if len(stations) > 0 {
		split = true
		knots = append(knots, stations...)
		sort.SliceStable(knots, func(i, j int) bool { return knots[i].T.Before(knots[j].T) })
	}

	var (
		roots []Root
		errs  []error
	)
	g := func(ctx context.Context, t time.Time) (float64, error) {
		e, err := fn(ctx, t)
		return e.Residual, err
	}
	for i, k := range knots {
		if math.Abs(k.Residual) < r.tol.Angle {
			roots = append(roots, Root{T: k.T, Residual: k.Residual, Split: split})
			continue
		}
		if i+1 == len(knots) {
			break
		}
		next := knots[i+1]
		if math.Abs(next.Residual) < r.tol.Angle || !strictChange(k.Residual, next.Residual) {
			continue
		}
		root, err := r.solve(ctx, g, k.T, k.Residual, next.T, next.Residual)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			errs = append(errs, err)
			continue
		}
		root.Split = split
		roots = append(roots, root)
	}
	return dedupe(roots, r.tol.Time), errors.Join(errs...)
}

// Crossing zeroes a scalar function between lo and hi
func (r *Refiner) Crossing(ctx context.Context, g Scalar, lo, hi time.Time) (Root, error) {
	fa, err := g(ctx, lo)
	if err != nil {
		return Root{}, err
	}
	fb, err := g(ctx, hi)
	if err != nil {
		return Root{}, err
	}
	if math.Abs(fa) < r.tol.Angle {
		return Root{T: lo, Residual: fa}, nil
	}
	if math.Abs(fb) < r.tol.Angle {
		return Root{T: hi, Residual: fb}, nil
	}
	if (fa < 0) == (fb < 0) {
		return Root{}, ErrNoBracket
	}
	return r.solve(ctx, g, lo, fa, hi, fb)
}

// solve runs secant iteration with bisection fallback on a sign-changing bracket.
// Time is carried as float seconds from ta so every step is exact and repeatable.
func (r *Refiner) solve(ctx context.Context, g Scalar, ta time.Time, fa float64, tb time.Time, fb float64) (Root, error) {
	at := func(x float64) time.Time { return ta.Add(time.Duration(math.Round(x * 1e9))) }
	eps := r.tol.Time.Seconds()

	xa, xb := 0.0, tb.Sub(ta).Seconds()
	x1, f1 := xa, fa
	x2, f2 := xb, fb
	forceBisect := false
	bisections := 0

	for iter := 1; iter <= r.tol.MaxIter; iter++ {
		width := xb - xa
		if width < eps {
			x, f := xa, fa
			if math.Abs(fb) < math.Abs(fa) {
				x, f = xb, fb
			}
			return Root{T: at(x), Residual: f, Iterations: iter - 1, Bisections: bisections}, nil
		}

		x, bisected := 0.0, false
		if !forceBisect && f2 != f1 {
			x = x2 - f2*(x2-x1)/(f2-f1)
		}
		if forceBisect || f2 == f1 || !(x > xa && x < xb) {
			x, bisected = xa+width/2, true
			bisections++
		}

		f, err := g(ctx, at(x))
		if err != nil {
			return Root{}, err
		}
		if math.Abs(f) < r.tol.Angle {
			return Root{T: at(x), Residual: f, Iterations: iter, Bisections: bisections}, nil
		}
		if (f < 0) == (fa < 0) {
			xa, fa = x, f
		} else {
			xb, fb = x, f
		}
		forceBisect = !bisected && xb-xa > r.tol.Shrink*width
		x1, f1 = x2, f2
		x2, f2 = x, f
	}
	return Root{}, fmt.Errorf("%w after %d iterations in %s..%s", ErrNonConvergent, r.tol.MaxIter, ta.UTC().Format(time.RFC3339), tb.UTC().Format(time.RFC3339))
}

// station bisects on the rate between two knots whose rates differ in sign
func (r *Refiner) station(ctx context.Context, fn Func, a, b Eval) (Eval, error) {
	for iter := 0; iter < r.tol.MaxIter && b.T.Sub(a.T) >= r.tol.Time; iter++ {
		mid, err := fn(ctx, a.T.Add(b.T.Sub(a.T)/2))
		if err != nil {
			return Eval{}, err
		}
		if mid.Rate == 0 {
			return mid, nil
		}
		if (mid.Rate < 0) == (a.Rate < 0) {
			a = mid
		} else {
			b = mid
		}
	}
	if math.Abs(b.Rate) < math.Abs(a.Rate) {
		return b, nil
	}
	return a, nil
}

// strictChange reports a continuous change of sign with both ends off zero
func strictChange(r0, r1 float64) bool {
	return angle.Continuous(r0, r1) && ((r0 < 0 && r1 > 0) || (r0 > 0 && r1 < 0))
}

func dedupe(roots []Root, within time.Duration) []Root {
	if len(roots) < 2 {
		return roots
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].T.Before(roots[j].T) })
	out := roots[:1]
	for _, rt := range roots[1:] {
		if rt.T.Sub(out[len(out)-1].T) < within {
			continue
		}
		out = append(out, rt)
	}
	return out
}
