package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidHarmonic is returned when a harmonic below 2 is requested
var ErrInvalidHarmonic = errors.New("invalid harmonic")

// DedupeEpsilon is the tolerance in degrees under which two angles are the same aspect
const DedupeEpsilon = 1e-6

// FamilyHarmonic is the family key shared by all harmonic-derived angles
const FamilyHarmonic = "harmonic"

// AspectAngle is a target separation plus where it came from.
// Name is set for named aspects; Harmonic and K for harmonic-derived ones.
type AspectAngle struct {
	Degrees  float64 `json:"degrees"`
	Name     Aspect  `json:"name,omitempty"`
	Harmonic int     `json:"harmonic,omitempty"`
	K        int     `json:"k,omitempty"`
}

// Named builds the angle for a named aspect
func Named(a Aspect) AspectAngle {
	return AspectAngle{Degrees: a.Degrees(), Name: a}
}

// HarmonicAngle builds the k-th angle of harmonic h
func HarmonicAngle(h, k int) AspectAngle {
	return AspectAngle{Degrees: float64(k) * 360 / float64(h), Harmonic: h, K: k}
}

// IsNamed reports whether the angle carries a canonical aspect name
func (a AspectAngle) IsNamed() bool { return a.Name.Valid() }

// Key identifies the angle for per-aspect lookups: the aspect name or h<h>
func (a AspectAngle) Key() string {
	if a.IsNamed() {
		return a.Name.String()
	}
	return fmt.Sprintf("h%d", a.Harmonic)
}

// Family is the aspect name or "harmonic"
func (a AspectAngle) Family() string {
	if a.IsNamed() {
		return a.Name.String()
	}
	return FamilyHarmonic
}

// Label is a human readable name: the aspect name or h<h>.<k>
func (a AspectAngle) Label() string {
	if a.IsNamed() {
		return a.Name.String()
	}
	return fmt.Sprintf("h%d.%d", a.Harmonic, a.K)
}

// Minor reports whether the angle is a named minor aspect or harmonic-derived
func (a AspectAngle) Minor() bool { return !a.IsNamed() || !a.Name.Major() }

// Targets are the signed residual targets for the angle: one for 0 and 180, two otherwise
func (a AspectAngle) Targets() []float64 {
	if a.Degrees < DedupeEpsilon || math.Abs(a.Degrees-180) < DedupeEpsilon {
		return []float64{a.Degrees}
	}
	return []float64{a.Degrees, -a.Degrees}
}

// String implements fmt.Stringer
func (a AspectAngle) String() string {
	return fmt.Sprintf("%s(%.6g)", a.Label(), a.Degrees)
}

// Expand merges named aspects with the angles of each harmonic.
// Harmonic h contributes k*360/h for k=1..h/2; duplicates within DedupeEpsilon
// keep the named aspect, then the lower harmonic.
func Expand(names []Aspect, harmonics []int) ([]AspectAngle, error) {
	for _, h := range harmonics {
		if h < 2 {
			return nil, fmt.Errorf("%w: %d (must be >= 2)", ErrInvalidHarmonic, h)
		}
	}

	var out []AspectAngle
	seen := func(deg float64) bool {
		for _, a := range out {
			if math.Abs(a.Degrees-deg) < DedupeEpsilon {
				return true
			}
		}
		return false
	}

	named := append([]Aspect(nil), names...)
	sort.Slice(named, func(i, j int) bool { return named[i] < named[j] })
	for _, n := range named {
		if !n.Valid() {
			return nil, fmt.Errorf("invalid aspect %d", uint8(n))
		}
		if seen(n.Degrees()) {
			continue
		}
		out = append(out, Named(n))
	}

	hs := append([]int(nil), harmonics...)
	sort.Ints(hs)
	for _, h := range hs {
		for k := 1; k <= h/2; k++ {
			a := HarmonicAngle(h, k)
			if a.Degrees <= 0 || a.Degrees > 180+DedupeEpsilon || seen(a.Degrees) {
				continue
			}
			out = append(out, a)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Degrees != out[j].Degrees {
			return out[i].Degrees < out[j].Degrees
		}
		return out[i].IsNamed() && !out[j].IsNamed()
	})
	return out, nil
}
