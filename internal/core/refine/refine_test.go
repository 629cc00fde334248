package refine

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC)

func days(d float64) time.Time { return t0.Add(time.Duration(d * float64(24*time.Hour))) }

func dayOf(t time.Time) float64 { return float64(t.Sub(t0)) / float64(24*time.Hour) }

// fnOf builds a residual Func from closed forms in days
func fnOf(r, rate func(d float64) float64) Func {
	return func(ctx context.Context, t time.Time) (Eval, error) {
		if err := ctx.Err(); err != nil {
			return Eval{}, err
		}
		d := dayOf(t)
		return Eval{T: t, Residual: r(d), Rate: rate(d)}, nil
	}
}

func eval(t *testing.T, fn Func, d float64) Eval {
	t.Helper()
	e, err := fn(context.Background(), days(d))
	require.NoError(t, err)
	return e
}

func mustRefiner(t *testing.T, tol Tolerance) *Refiner {
	t.Helper()
	r, err := New(tol)
	require.NoError(t, err)
	return r
}

func TestRoots_Linear(t *testing.T) {
	fn := fnOf(func(d float64) float64 { return 1.3 * (d - 2.4) }, func(float64) float64 { return 1.3 })
	r := mustRefiner(t, DefaultTolerance())

	roots, err := r.Roots(context.Background(), fn, eval(t, fn, 0), eval(t, fn, 5))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.InDelta(t, 2.4, dayOf(roots[0].T), 1.0/86400)
	assert.False(t, roots[0].Split)
}

func TestRoots_StationLoopYieldsTwoOrderedRoots(t *testing.T) {
	// residual rises through the target, stations at d=5 and falls back through it
	fn := fnOf(
		func(d float64) float64 { return 0.5 - 0.1*(d-5)*(d-5) },
		func(d float64) float64 { return -0.2 * (d - 5) },
	)
	r := mustRefiner(t, DefaultTolerance())

	lo, hi := eval(t, fn, 0), eval(t, fn, 10)
	require.Equal(t, lo.Residual < 0, hi.Residual < 0, "ends share a sign: no plain bracket")

	roots, err := r.Roots(context.Background(), fn, lo, hi)
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.InDelta(t, 5-math.Sqrt(5), dayOf(roots[0].T), 1.0/86400)
	assert.InDelta(t, 5+math.Sqrt(5), dayOf(roots[1].T), 1.0/86400)
	assert.True(t, roots[0].T.Before(roots[1].T))
	assert.True(t, roots[0].Split)
}

func TestRoots_StationWithoutCrossingYieldsNothing(t *testing.T) {
	fn := fnOf(
		func(d float64) float64 { return -0.2 - 0.1*(d-5)*(d-5) },
		func(d float64) float64 { return -0.2 * (d - 5) },
	)
	r := mustRefiner(t, DefaultTolerance())
	roots, err := r.Roots(context.Background(), fn, eval(t, fn, 0), eval(t, fn, 10))
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestRoots_NoProbesStillSplitsOnEndRates(t *testing.T) {
	tol := DefaultTolerance()
	tol.Probes = 0
	fn := fnOf(
		func(d float64) float64 { return 0.5 - 0.1*(d-5)*(d-5) },
		func(d float64) float64 { return -0.2 * (d - 5) },
	)
	roots, err := mustRefiner(t, tol).Roots(context.Background(), fn, eval(t, fn, 0), eval(t, fn, 10))
	require.NoError(t, err)
	assert.Len(t, roots, 2)
}

func TestRoots_IgnoresSeamJump(t *testing.T) {
	// wrapped residual jumps from +179.5 to -179.5: not a crossing
	fn := fnOf(
		func(d float64) float64 {
			v := math.Mod(179+d+180, 360) - 180
			return v
		},
		func(float64) float64 { return 1 },
	)
	roots, err := mustRefiner(t, DefaultTolerance()).Roots(context.Background(), fn, eval(t, fn, 0.5), eval(t, fn, 1.5))
	require.NoError(t, err)
	assert.Empty(t, roots)
}

func TestRoots_NonConvergent(t *testing.T) {
	tol := Tolerance{Angle: 1e-12, Time: time.Millisecond, MaxIter: 3, Shrink: 0.5, Probes: 0}
	fn := fnOf(
		func(d float64) float64 { return math.Copysign(math.Sqrt(math.Abs(d-3.3)), d-3.3) },
		func(d float64) float64 { return 1 },
	)
	roots, err := mustRefiner(t, tol).Roots(context.Background(), fn, eval(t, fn, 0), eval(t, fn, 10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNonConvergent))
	assert.Empty(t, roots)
}

func TestRoots_OracleFailureAbandonsBracket(t *testing.T) {
	boom := errors.New("oracle down")
	ok := fnOf(func(d float64) float64 { return d - 1 }, func(float64) float64 { return 1 })
	fn := func(ctx context.Context, tm time.Time) (Eval, error) {
		if tm.After(days(0.1)) && tm.Before(days(1.9)) {
			return Eval{}, boom
		}
		return ok(ctx, tm)
	}
	_, err := mustRefiner(t, DefaultTolerance()).Roots(context.Background(), fn, eval(t, ok, 0), eval(t, ok, 2))
	assert.ErrorIs(t, err, boom)
}

func TestRoots_ExactKnot(t *testing.T) {
	fn := fnOf(func(d float64) float64 { return d - 2 }, func(float64) float64 { return 1 })
	roots, err := mustRefiner(t, DefaultTolerance()).Roots(context.Background(), fn, eval(t, fn, 0), eval(t, fn, 2))
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, days(2), roots[0].T)
}

func TestCrossing(t *testing.T) {
	r := mustRefiner(t, DefaultTolerance())
	g := func(_ context.Context, tm time.Time) (float64, error) {
		d := dayOf(tm)
		return math.Abs(d-4) - 1.5, nil
	}
	root, err := r.Crossing(context.Background(), g, days(0), days(4))
	require.NoError(t, err)
	assert.InDelta(t, 2.5, dayOf(root.T), 1.0/86400)

	_, err = r.Crossing(context.Background(), g, days(3), days(5))
	assert.ErrorIs(t, err, ErrNoBracket)
}

func TestTolerance_Validate(t *testing.T) {
	require.NoError(t, DefaultTolerance().Validate())
	bad := []func(*Tolerance){
		func(t *Tolerance) { t.Angle = 0 },
		func(t *Tolerance) { t.Time = 0 },
		func(t *Tolerance) { t.MaxIter = 0 },
		func(t *Tolerance) { t.Shrink = 1 },
		func(t *Tolerance) { t.Probes = -1 },
	}
	for i, mut := range bad {
		tol := DefaultTolerance()
		mut(&tol)
		assert.Error(t, tol.Validate(), "case %d", i)
		_, err := New(tol)
		assert.Error(t, err)
	}
}
