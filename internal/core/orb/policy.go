// Package orb resolves the orb limit for a (point, point, aspect) triple from
// overrides, the built-in default table and adaptive multipliers
package orb

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"aspectscan/internal/core/catalog"
)

// ErrUnresolvedPolicy means the default table has no entry for an aspect family.
// It is a table integrity bug and fails the whole scan.
var ErrUnresolvedPolicy = errors.New("unresolved orb policy")

// ErrInvalidPolicy marks overrides or multipliers that are not positive
var ErrInvalidPolicy = errors.New("invalid orb policy")

// Rule keys an adaptive multiplier
type Rule string

// Adaptive rules
const (
	// RuleLuminaries applies when the sun or moon participates
	RuleLuminaries Rule = "luminaries"
	// RuleOuterPlanets applies when every single-body participant is outer or minor
	RuleOuterPlanets Rule = "outer_planets"
	// RuleMinorAspects applies to named minor aspects
	RuleMinorAspects Rule = "minor_aspects"
	// RuleHarmonics applies to harmonic-derived angles
	RuleHarmonics Rule = "harmonics"
	// RuleAngles applies when a chart angle participates
	RuleAngles Rule = "angles"
	// RuleMidpoints applies when a midpoint participates
	RuleMidpoints Rule = "midpoints"
)

// Rules lists every adaptive rule in evaluation order
func Rules() []Rule {
	return []Rule{RuleLuminaries, RuleOuterPlanets, RuleMinorAspects, RuleHarmonics, RuleAngles, RuleMidpoints}
}

// ParseRule resolves a rule key
func ParseRule(s string) (Rule, error) {
	r := Rule(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range Rules() {
		if r == k {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown adaptive rule %q", s)
}

// Policy is a fully resolved orb policy. Zero value means "defaults only".
type Policy struct {
	// PerObject orbs in degrees, matched on any constituent body of either point
	PerObject map[catalog.Body]float64 `json:"per_object,omitempty"`
	// PerAspect orbs keyed by aspect key ("square", "h7") or family ("harmonic")
	PerAspect map[string]float64 `json:"per_aspect,omitempty"`
	// Adaptive multipliers applied to whichever base was selected
	Adaptive map[Rule]float64 `json:"adaptive,omitempty"`
}

// Validate rejects non-positive values and unknown rule keys
func (p Policy) Validate() error {
	for _, b := range sortedBodies(p.PerObject) {
		if !b.Valid() {
			return fmt.Errorf("%w: per_object has invalid body %d", ErrInvalidPolicy, uint8(b))
		}
		if v := p.PerObject[b]; !(v > 0) {
			return fmt.Errorf("%w: per_object %s = %v (must be > 0)", ErrInvalidPolicy, b, v)
		}
	}
	for _, k := range sortedKeys(p.PerAspect) {
		if v := p.PerAspect[k]; !(v > 0) {
			return fmt.Errorf("%w: per_aspect %s = %v (must be > 0)", ErrInvalidPolicy, k, v)
		}
	}
	for _, r := range sortedKeys(p.Adaptive) {
		if _, err := ParseRule(string(r)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
		}
		if v := p.Adaptive[r]; !(v > 0) {
			return fmt.Errorf("%w: adaptive %s = %v (must be > 0)", ErrInvalidPolicy, r, v)
		}
	}
	return nil
}

// Empty reports whether the policy carries no overrides at all
func (p Policy) Empty() bool {
	return len(p.PerObject) == 0 && len(p.PerAspect) == 0 && len(p.Adaptive) == 0
}

// Merge layers inline over stored, key by key. Neither input is modified.
func Merge(stored, inline Policy) Policy {
	return Policy{
		PerObject: mergeMap(stored.PerObject, inline.PerObject),
		PerAspect: mergeMap(stored.PerAspect, inline.PerAspect),
		Adaptive:  mergeMap(stored.Adaptive, inline.Adaptive),
	}
}

func mergeMap[K comparable](base, over map[K]float64) map[K]float64 {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[K]float64, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func sortedBodies(m map[catalog.Body]float64) []catalog.Body {
	out := make([]catalog.Body, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeys[K ~string](m map[K]float64) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
