package scan

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	"aspectscan/internal/core/angle"
	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/ephem"
	"aspectscan/internal/core/hit"
	"aspectscan/internal/core/motion"
	"aspectscan/internal/core/orb"
	"aspectscan/internal/core/rank"
	"aspectscan/internal/core/refine"
	"aspectscan/internal/core/sampler"
	"aspectscan/internal/core/severity"
	"aspectscan/internal/core/tables"
	"aspectscan/internal/platform/logger"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxSamples bounds the grid a single scan may request
	DefaultMaxSamples = 200_000
	// DefaultClassifyStep is the half-width used to read the residual trend at AsOf
	DefaultClassifyStep = time.Hour
)

// Options tune an engine; zero values select defaults
type Options struct {
	Workers      int
	MaxSamples   int
	ClassifyStep time.Duration
	DiffStep     time.Duration
	Log          *logger.Logger
}

// Engine runs scans against one oracle and one set of tables. It holds no
// per-scan state and is safe for concurrent use.
type Engine struct {
	oracle ephem.Oracle
	tables *tables.Tables
	scorer *severity.Scorer
	opts   Options
	log    zerolog.Logger
}

// New builds an engine. oracle may be nil when every scan pins all of its bodies with Fixed.
func New(oracle ephem.Oracle, t *tables.Tables, opts Options) (*Engine, error) {
	if t == nil {
		return nil, errors.New("scan: tables are required")
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.MaxSamples == 0 {
		opts.MaxSamples = DefaultMaxSamples
	}
	if opts.ClassifyStep <= 0 {
		opts.ClassifyStep = DefaultClassifyStep
	}
	log := zerolog.Nop()
	if opts.Log != nil {
		log = opts.Log.With().Str("component", "scan").Logger()
	}
	return &Engine{oracle: oracle, tables: t, scorer: severity.New(t), opts: opts, log: log}, nil
}

// Tables exposes the engine's read-only tables
func (e *Engine) Tables() *tables.Tables { return e.tables }

// triple is one (pair, aspect angle) unit of work with its resolved orb
type triple struct {
	a, b   catalog.Point
	aspect catalog.AspectAngle
	orb    float64
}

// run carries the per-scan collaborators shared by all triples
type run struct {
	cfg     Config
	sampler *sampler.Sampler
	refiner *refine.Refiner
	grid    *sampler.Grid
	asOf    time.Time
}

type tripleOut struct {
	hits     []hit.Hit
	diags    []Diagnostic
	brackets int
	dropped  int
}

// Run executes a scan. Invalid configs and unresolvable orbs fail the whole
// scan; oracle gaps and solver failures degrade into diagnostics.
func (e *Engine) Run(ctx context.Context, cfg Config) (Result, error) {
	if err := cfg.Validate(e.opts.MaxSamples); err != nil {
		return Result{}, err
	}
	pairs := cfg.ResolvedPairs()
	points := Points(pairs)

	oracle := ephem.WithFixed(e.oracle, cfg.Fixed)
	for _, p := range points {
		for _, b := range p.Bodies() {
			if oracle == nil || !ephem.Supports(oracle, b, cfg.Frame) {
				return Result{}, invalid("body %s is not available in frame %s", b, cfg.Frame)
			}
		}
	}

	angles, err := catalog.Expand(cfg.Aspects, cfg.Harmonics)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	resolver, err := orb.NewResolver(cfg.Policy, e.tables.Orbs)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	triples := make([]triple, 0, len(pairs)*len(angles))
	for _, p := range pairs {
		for _, a := range angles {
			limit, err := resolver.Resolve(p.A, p.B, a)
			if err != nil {
				return Result{}, fmt.Errorf("%s %s: %w", p, a.Label(), err)
			}
			triples = append(triples, triple{a: p.A, b: p.B, aspect: a, orb: limit})
		}
	}

	refiner, err := refine.New(cfg.tolerance())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	smp := sampler.New(oracle, cfg.Frame, e.opts.DiffStep)
	grid, err := smp.Grid(ctx, points, sampler.Times(cfg.Start, cfg.End, cfg.Step), e.opts.Workers)
	if err != nil {
		return Result{}, err
	}

	res := Result{Limit: cfg.Limit, Offset: cfg.Offset, Diagnostics: []Diagnostic{}}
	res.Stats.Samples = len(grid.Times)
	res.Stats.Triples = len(triples)
	for i, t := range grid.Times {
		if !grid.Missing(i) {
			continue
		}
		res.Stats.Missing++
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Kind: KindOracleUnavailable,
			From: t.UTC(),
			To:   t.UTC(),
			Err:  grid.Errs[i].Error(),
		})
	}
	if res.Stats.Missing > 0 {
		e.log.Warn().Int("missing", res.Stats.Missing).Int("samples", res.Stats.Samples).Msg("oracle gaps in sample grid")
	}

	r := &run{cfg: cfg, sampler: smp, refiner: refiner, grid: grid, asOf: cfg.asOf()}
	outs := make([]tripleOut, len(triples))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.opts.Workers)
	for i := range triples {
		eg.Go(func() error {
			out, err := e.scanTriple(gctx, r, triples[i])
			if err != nil {
				return err
			}
			outs[i] = out
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	var hits []hit.Hit
	for _, o := range outs {
		hits = append(hits, o.hits...)
		res.Diagnostics = append(res.Diagnostics, o.diags...)
		res.Stats.Brackets += o.brackets
		res.Stats.Dropped += o.dropped
	}

	rank.Sort(hits, cfg.Order)
	res.Total = len(hits)
	res.Stats.Hits = len(hits)
	res.Hits = rank.Page(hits, cfg.Limit, cfg.Offset)

	e.log.Debug().
		Int("pairs", len(pairs)).
		Int("triples", len(triples)).
		Int("brackets", res.Stats.Brackets).
		Int("hits", res.Total).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("scan complete")
	return res, nil
}

// scanTriple walks the grid for one triple, refining every candidate bracket on
// each residual branch. Brackets span consecutive present samples, so a single
// oracle gap widens a bracket instead of hiding it.
func (e *Engine) scanTriple(ctx context.Context, r *run, tr triple) (tripleOut, error) {
	var out tripleOut
	stepDays := r.cfg.Step.Hours() / 24

	for _, target := range tr.aspect.Targets() {
		fn := func(ctx context.Context, t time.Time) (refine.Eval, error) {
			s, err := r.sampler.Sample(ctx, tr.a, tr.b, t)
			if err != nil {
				return refine.Eval{}, err
			}
			return refine.Eval{T: t, Residual: s.Residual(target), Rate: s.Rate}, nil
		}

		var (
			prev     refine.Eval
			havePrev bool
			last     time.Time
			ahead    bool
		)
		for i := range r.grid.Times {
			if err := ctx.Err(); err != nil {
				return tripleOut{}, err
			}
			s, ok := r.grid.Pair(i, tr.a, tr.b)
			if !ok {
				continue
			}
			cur := refine.Eval{T: s.T, Residual: s.Residual(target), Rate: s.Rate}
			if !havePrev {
				prev, havePrev = cur, true
				continue
			}
			lo := prev
			prev = cur
			if !candidate(lo, cur, tr.orb, stepDays) {
				continue
			}
			out.brackets++

			roots, err := r.refiner.Roots(ctx, fn, lo, cur)
			if err != nil {
				if ctx.Err() != nil {
					return tripleOut{}, ctx.Err()
				}
				out.dropped++
				d := Diagnostic{
					Kind:   kindOf(err),
					A:      tr.a,
					B:      tr.b,
					Aspect: tr.aspect.Label(),
					From:   lo.T.UTC(),
					To:     cur.T.UTC(),
					Err:    err.Error(),
				}
				out.diags = append(out.diags, d)
				e.log.Warn().Str("kind", string(d.Kind)).Str("pair", tr.a.String()+"-"+tr.b.String()).
					Str("aspect", d.Aspect).Time("from", d.From).Time("to", d.To).Err(err).Msg("bracket unresolved")
			}

			for _, root := range roots {
				if !last.IsZero() && root.T.Sub(last) < r.refiner.Tolerance().Time {
					continue
				}
				last = root.T

				// past hits separate; only the nearest future hit reads the trend at AsOf
				applying := r.asOf.Before(root.T)
				if applying && !ahead {
					ahead = true
					v, ok, err := e.trendAt(ctx, r, fn)
					if err != nil {
						return tripleOut{}, err
					}
					if ok {
						applying = v
					}
				}
				h, err := e.buildHit(ctx, r, tr, target, root, applying)
				if err != nil {
					if ctx.Err() != nil {
						return tripleOut{}, ctx.Err()
					}
					out.dropped++
					out.diags = append(out.diags, Diagnostic{
						Kind:   KindOracleUnavailable,
						A:      tr.a,
						B:      tr.b,
						Aspect: tr.aspect.Label(),
						From:   root.T.UTC(),
						To:     root.T.UTC(),
						Err:    err.Error(),
					})
					continue
				}
				out.hits = append(out.hits, h)
			}
		}
	}
	return out, nil
}

// candidate reports whether a grid bracket can hold a crossing: a continuous
// sign change of the residual, or a reversal of the relative motion close
// enough to the target that the residual may dip through zero and back.
func candidate(lo, hi refine.Eval, limit, stepDays float64) bool {
	if angle.SignChange(lo.Residual, hi.Residual) {
		return true
	}
	if lo.Rate*hi.Rate >= 0 || !angle.Continuous(lo.Residual, hi.Residual) {
		return false
	}
	reach := limit + math.Max(math.Abs(lo.Rate), math.Abs(hi.Rate))*stepDays
	return math.Min(math.Abs(lo.Residual), math.Abs(hi.Residual)) <= reach
}

// trendAt reads whether the residual is shrinking around the reference instant.
// When either side of AsOf is missing it falls back to the relative rate at
// AsOf itself. ok is false when the oracle cannot serve AsOf at all; callers
// then keep calling the hit applying because it is still ahead of AsOf.
func (e *Engine) trendAt(ctx context.Context, r *run, fn refine.Func) (applying, ok bool, err error) {
	step := e.opts.ClassifyStep
	before, err := fn(ctx, r.asOf.Add(-step))
	if err == nil {
		var after refine.Eval
		if after, err = fn(ctx, r.asOf.Add(step)); err == nil {
			return motion.Applying(before.Residual, after.Residual), true, nil
		}
	}
	if ctx.Err() != nil {
		return false, false, ctx.Err()
	}
	at, err := fn(ctx, r.asOf)
	if err != nil {
		if ctx.Err() != nil {
			return false, false, ctx.Err()
		}
		return false, false, nil
	}
	return motion.ApplyingRate(at.Residual, at.Rate), true, nil
}

func (e *Engine) buildHit(ctx context.Context, r *run, tr triple, target float64, root refine.Root, applying bool) (hit.Hit, error) {
	st, err := r.sampler.States(ctx, []catalog.Point{tr.a, tr.b}, root.T)
	if err != nil {
		return hit.Hit{}, err
	}
	a, b := st[tr.a], st[tr.b]
	orbDeg := math.Abs(angle.WrapDelta(angle.WrapDelta(a.Longitude, b.Longitude), target))

	score := e.scorer.Score(severity.Input{
		A:        severity.Participant{Point: tr.a, Longitude: a.Longitude, Speed: a.Speed},
		B:        severity.Participant{Point: tr.b, Longitude: b.Longitude, Speed: b.Speed},
		Aspect:   tr.aspect,
		Orb:      orbDeg,
		OrbLimit: tr.orb,
		Applying: applying,
	})

	h := hit.Hit{
		A:        tr.a,
		B:        tr.b,
		Aspect:   tr.aspect,
		Target:   target,
		Exact:    root.T.UTC(),
		Orb:      orbDeg,
		OrbLimit: tr.orb,
		Applying: applying,
		Severity: score.Score,
		Band:     score.Band,
		Weight:   score.Base,
		Flags: hit.Flags{
			Retrograde: score.Retrograde,
			Station:    score.Station,
			Angular:    score.Angular,
			Partile:    score.Partile,
			Split:      root.Split,
		},
		Meta: map[string]float64{
			"base":       score.Base,
			"falloff":    score.Falloff,
			"dignity":    score.Dignity,
			"phase":      score.Phase,
			"context":    score.Context,
			"lon_a":      a.Longitude,
			"lon_b":      b.Longitude,
			"speed_a":    a.Speed,
			"speed_b":    b.Speed,
			"iterations": float64(root.Iterations),
		},
	}

	if r.cfg.OrbWindows {
		w, err := e.window(ctx, r, tr, target, root.T)
		if err != nil {
			return hit.Hit{}, err
		}
		h.Window = &w
	}
	return h, nil
}

// window walks out from the exact time one step at a time until the residual
// leaves the orb, then solves |residual| = orb on the last step. An edge that
// lies outside the scan window stays zero.
func (e *Engine) window(ctx context.Context, r *run, tr triple, target float64, exact time.Time) (hit.Window, error) {
	g := func(ctx context.Context, t time.Time) (float64, error) {
		s, err := r.sampler.Sample(ctx, tr.a, tr.b, t)
		if err != nil {
			return 0, err
		}
		return math.Abs(s.Residual(target)) - tr.orb, nil
	}

	edge := func(dir time.Duration) (time.Time, error) {
		inside := exact
		for {
			t := inside.Add(dir)
			if t.Before(r.cfg.Start) || t.After(r.cfg.End) {
				return time.Time{}, nil
			}
			v, err := g(ctx, t)
			if err != nil {
				return time.Time{}, err
			}
			if v < 0 {
				inside = t
				continue
			}
			lo, hi := inside, t
			if dir < 0 {
				lo, hi = t, inside
			}
			root, err := r.refiner.Crossing(ctx, g, lo, hi)
			if err != nil {
				return time.Time{}, err
			}
			return root.T.UTC(), nil
		}
	}

	enter, err := edge(-r.cfg.Step)
	if err != nil {
		return hit.Window{}, err
	}
	exit, err := edge(r.cfg.Step)
	if err != nil {
		return hit.Window{}, err
	}
	return hit.Window{Enter: enter, Exit: exit}, nil
}
