// Package severity scores resolved hits and bands the scores
package severity

import (
	"fmt"
	"math"
	"strings"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/tables"
)

// Band is a discrete label over the continuous score
type Band uint8

// Bands, weakest first
const (
	Weak Band = iota
	Moderate
	Strong
	Peak
)

var bandNames = [...]string{"weak", "moderate", "strong", "peak"}

// String returns the wire name
func (b Band) String() string {
	if int(b) >= len(bandNames) {
		return fmt.Sprintf("band(%d)", uint8(b))
	}
	return bandNames[b]
}

// MarshalText implements encoding.TextMarshaler
func (b Band) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Band) UnmarshalText(p []byte) error {
	v, err := ParseBand(string(p))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBand resolves a wire name
func ParseBand(s string) (Band, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, n := range bandNames {
		if n == key {
			return Band(i), nil
		}
	}
	return Weak, fmt.Errorf("unknown severity band %q", s)
}

// BandOf labels a score with the configured lower edges
func BandOf(edges tables.Bands, score float64) Band {
	switch {
	case score >= edges.Peak:
		return Peak
	case score >= edges.Strong:
		return Strong
	case score >= edges.Moderate:
		return Moderate
	default:
		return Weak
	}
}

// OrbFalloff is 1 at exactness, 0 at and beyond the limit, quadratic and symmetric in between
func OrbFalloff(delta, limit float64) float64 {
	if !(limit > 0) {
		return 0
	}
	q := delta / limit
	return math.Max(0, 1-q*q)
}

// Participant is one side of a hit at its exact time
type Participant struct {
	Point     catalog.Point
	Longitude float64
	Speed     float64
}

// Input is everything the scorer looks at
type Input struct {
	A, B     Participant
	Aspect   catalog.AspectAngle
	Orb      float64
	OrbLimit float64
	Applying bool
}

// Breakdown is a score with its factors
type Breakdown struct {
	Base    float64 `json:"base"`
	Falloff float64 `json:"falloff"`
	Dignity float64 `json:"dignity"`
	Phase   float64 `json:"phase"`
	Context float64 `json:"context"`
	Score   float64 `json:"score"`
	Band    Band    `json:"band"`

	Retrograde bool `json:"retrograde"`
	Station    bool `json:"station"`
	Angular    bool `json:"angular"`
	Partile    bool `json:"partile"`
}

// Scorer is a pure function of its inputs and the read-only tables
type Scorer struct {
	t *tables.Tables
}

// New binds the tables
func New(t *tables.Tables) *Scorer { return &Scorer{t: t} }

// Weight is the base weight of a triple: geometric mean of the point weights times the aspect weight
func (s *Scorer) Weight(a, b catalog.Point, aspect catalog.AspectAngle) float64 {
	return math.Sqrt(s.t.PointWeight(a)*s.t.PointWeight(b)) * s.t.AspectWeight(aspect)
}

// Score computes base x falloff x dignity x phase x context, clamped to [0,1]
func (s *Scorer) Score(in Input) Breakdown {
	m := s.t.Modifiers
	out := Breakdown{
		Base:    s.Weight(in.A.Point, in.B.Point, in.Aspect),
		Falloff: OrbFalloff(in.Orb, in.OrbLimit),
		Dignity: 1,
		Phase:   1,
		Context: 1,
	}

	for _, p := range []Participant{in.A, in.B} {
		if p.Point.IsMidpoint() {
			if p.Point.A.IsAngle() || p.Point.B.IsAngle() {
				out.Angular = true
			}
			continue
		}
		body := p.Point.A
		out.Dignity *= s.t.DignityFactor(s.t.DignityOf(body, catalog.SignOf(p.Longitude)))
		switch c := body.Class(); {
		case c == catalog.ClassAngle:
			out.Angular = true
		case c == catalog.ClassPoint:
			// mean nodes always move backwards; that is not retrogradation
		case p.Speed < 0:
			out.Retrograde = true
		}
		if s.t.Stationary(body, p.Speed) {
			out.Station = true
		}
	}
	out.Partile = in.Orb <= m.PartileOrb

	if in.Applying {
		out.Phase += m.Applying
	} else {
		out.Phase -= m.Separating
	}
	if out.Retrograde {
		out.Context += m.Retrograde
	}
	if out.Station {
		out.Context *= m.Station
	}
	if out.Angular {
		out.Context *= m.Angularity
	}
	if out.Partile {
		out.Context *= m.Partile
	}

	raw := out.Base * out.Falloff * out.Dignity * out.Phase * out.Context
	out.Score = math.Min(1, math.Max(0, raw))
	out.Band = BandOf(s.t.Bands, out.Score)
	return out
}
