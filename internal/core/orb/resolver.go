package orb

import (
	"fmt"
	"math"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/tables"
)

// Source records which layer produced the base orb
type Source string

// Resolution layers, highest precedence first
const (
	SourceObject  Source = "object"
	SourceAspect  Source = "aspect"
	SourceDefault Source = "default"
)

// Resolution is a resolved orb plus how it was reached
type Resolution struct {
	Degrees    float64
	Base       float64
	Source     Source
	Multiplier float64
	Rules      []Rule
}

// Resolver resolves orb limits against one policy and the default table
type Resolver struct {
	policy   Policy
	defaults tables.OrbTable
}

// NewResolver validates p and binds it to the default table
func NewResolver(p Policy, defaults tables.OrbTable) (*Resolver, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{policy: p, defaults: defaults}, nil
}

// Resolve returns the orb limit in degrees for a and b forming aspect
func (r *Resolver) Resolve(a, b catalog.Point, aspect catalog.AspectAngle) (float64, error) {
	res, err := r.Explain(a, b, aspect)
	return res.Degrees, err
}

// Explain resolves like Resolve and reports the layer and rules used
func (r *Resolver) Explain(a, b catalog.Point, aspect catalog.AspectAngle) (Resolution, error) {
	base, src, err := r.base(a, b, aspect)
	if err != nil {
		return Resolution{}, err
	}
	mult, rules := r.adaptive(a, b, aspect)
	deg := base * mult
	if !(deg > 0) || math.IsInf(deg, 0) {
		return Resolution{}, fmt.Errorf("%w: %s-%s %s resolved to %v", ErrUnresolvedPolicy, a, b, aspect.Label(), deg)
	}
	return Resolution{Degrees: deg, Base: base, Source: src, Multiplier: mult, Rules: rules}, nil
}

func (r *Resolver) base(a, b catalog.Point, aspect catalog.AspectAngle) (float64, Source, error) {
	oa, okA := r.objectOrb(a)
	ob, okB := r.objectOrb(b)
	switch {
	case okA && okB:
		return math.Min(oa, ob), SourceObject, nil
	case okA:
		return oa, SourceObject, nil
	case okB:
		return ob, SourceObject, nil
	}

	if v, ok := r.policy.PerAspect[aspect.Key()]; ok {
		return v, SourceAspect, nil
	}
	if v, ok := r.policy.PerAspect[aspect.Family()]; ok {
		return v, SourceAspect, nil
	}

	v, ok := r.defaults.Defaults[aspect.Key()]
	if !ok {
		v, ok = r.defaults.Defaults[aspect.Family()]
	}
	if !ok {
		return 0, "", fmt.Errorf("%w: no default orb for %s", ErrUnresolvedPolicy, aspect.Family())
	}
	return v * r.classFactor(a, b), SourceDefault, nil
}

// objectOrb takes the narrowest override among a point's constituents
func (r *Resolver) objectOrb(p catalog.Point) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for _, body := range p.Bodies() {
		if v, ok := r.policy.PerObject[body]; ok && (!found || v < best) {
			best, found = v, true
		}
	}
	return best, found
}

// classFactor is the widest factor among participating bodies; missing classes count as 1
func (r *Resolver) classFactor(a, b catalog.Point) float64 {
	f := 0.0
	for _, p := range []catalog.Point{a, b} {
		for _, body := range p.Bodies() {
			v, ok := r.defaults.ClassFactors[body.Class()]
			if !ok {
				v = 1
			}
			f = math.Max(f, v)
		}
	}
	if f == 0 {
		return 1
	}
	return f
}

func (r *Resolver) adaptive(a, b catalog.Point, aspect catalog.AspectAngle) (float64, []Rule) {
	if len(r.policy.Adaptive) == 0 {
		return 1, nil
	}
	mult := 1.0
	var used []Rule
	for _, rule := range Rules() {
		m, ok := r.policy.Adaptive[rule]
		if !ok || !Matches(rule, a, b, aspect) {
			continue
		}
		mult *= m
		used = append(used, rule)
	}
	return mult, used
}

// Matches reports whether an adaptive rule applies to the triple
func Matches(rule Rule, a, b catalog.Point, aspect catalog.AspectAngle) bool {
	points := []catalog.Point{a, b}
	anyBody := func(pred func(catalog.Body) bool) bool {
		for _, p := range points {
			for _, body := range p.Bodies() {
				if pred(body) {
					return true
				}
			}
		}
		return false
	}
	switch rule {
	case RuleLuminaries:
		return anyBody(func(b catalog.Body) bool { return b.Class() == catalog.ClassLuminary })
	case RuleAngles:
		return anyBody(catalog.Body.IsAngle)
	case RuleOuterPlanets:
		for _, p := range points {
			if p.IsMidpoint() {
				continue
			}
			if c := p.A.Class(); c != catalog.ClassOuter && c != catalog.ClassMinor {
				return false
			}
		}
		return !a.IsMidpoint() || !b.IsMidpoint()
	case RuleMinorAspects:
		return aspect.IsNamed() && !aspect.Name.Major()
	case RuleHarmonics:
		return !aspect.IsNamed()
	case RuleMidpoints:
		return a.IsMidpoint() || b.IsMidpoint()
	}
	return false
}
