package ephem

import (
	"context"
	"errors"
	"math"
	"time"

	"aspectscan/internal/core/angle"
	"aspectscan/internal/core/catalog"
)

// circular heliocentric orbit: mean longitude at J2000, mean motion (deg/day), radius (AU)
type orbit struct {
	l0, n, a float64
}

var orbits = map[catalog.Body]orbit{
	catalog.Mercury: {252.250906, 4.092334436, 0.387098},
	catalog.Venus:   {181.979801, 1.602130347, 0.723330},
	catalog.Mars:    {355.433000, 0.524039095, 1.523679},
	catalog.Jupiter: {34.351519, 0.083091189, 5.202603},
	catalog.Saturn:  {50.077444, 0.033459652, 9.554909},
	catalog.Uranus:  {314.055005, 0.011730787, 19.218446},
	catalog.Neptune: {304.348665, 0.005981033, 30.110387},
	catalog.Pluto:   {238.928810, 0.003968789, 39.482117},
	catalog.Chiron:  {209.400000, 0.019442000, 13.648000},
}

var earth = orbit{100.464572, 0.985609113, 1.000001}

const (
	moonL0     = 218.3164477
	moonN      = 13.17639648
	nodeL0     = 125.04452
	nodeN      = -0.0529538083
	obliquity  = 23.4392911
	precession = 50.2879 / 3600 / 365.25 // deg/day
)

var errUnsupported = errors.New("body not served by the mean-element model")

// MeanElements is a deterministic low-precision model: circular coplanar
// heliocentric orbits, the mean Moon and the mean lunar node. Geocentric
// planets show real retrograde loops and stations. Chart angles are not
// served; pin them with WithFixed.
type MeanElements struct{}

// NewMeanElements returns the built-in model
func NewMeanElements() MeanElements { return MeanElements{} }

// Supports implements Supporter
func (MeanElements) Supports(b catalog.Body, frame Frame) bool {
	if _, ok := orbits[b]; ok {
		return true
	}
	if frame.Center == Heliocentric {
		return false
	}
	switch b {
	case catalog.Sun, catalog.Moon, catalog.NorthNode, catalog.SouthNode:
		return true
	}
	return false
}

// Positions implements Oracle
func (m MeanElements) Positions(ctx context.Context, bodies []catalog.Body, t time.Time, frame Frame) (map[catalog.Body]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := DaysSinceJ2000(t)
	out := make(map[catalog.Body]Position, len(bodies))
	for _, b := range bodies {
		lon, speed, err := m.longitude(b, d, frame)
		if err != nil {
			return nil, Unavailable(b, t, err)
		}
		if frame.Zodiac == Sidereal {
			lon -= frame.Ayanamsa + precession*d
			speed -= precession
		}
		lon = angle.Normalize(lon)
		out[b] = Position{
			Longitude:   lon,
			Declination: declination(lon),
			Speed:       speed,
			SpeedKnown:  true,
		}
	}
	return out, nil
}

func (m MeanElements) longitude(b catalog.Body, d float64, frame Frame) (float64, float64, error) {
	if !m.Supports(b, frame) {
		return 0, 0, errUnsupported
	}
	switch b {
	case catalog.Sun:
		return earth.l0 + earth.n*d + 180, earth.n, nil
	case catalog.Moon:
		return moonL0 + moonN*d, moonN, nil
	case catalog.NorthNode:
		return nodeL0 + nodeN*d, nodeN, nil
	case catalog.SouthNode:
		return nodeL0 + nodeN*d + 180, nodeN, nil
	}
	o := orbits[b]
	if frame.Center == Heliocentric {
		return o.l0 + o.n*d, o.n, nil
	}
	return geocentric(o, d)
}

// geocentric projects a circular orbit onto the sky as seen from Earth,
// returning longitude and its analytic time derivative in deg/day
func geocentric(p orbit, d float64) (float64, float64, error) {
	lp := rad(p.l0 + p.n*d)
	le := rad(earth.l0 + earth.n*d)
	np, ne := rad(p.n), rad(earth.n)

	dx := p.a*math.Cos(lp) - earth.a*math.Cos(le)
	dy := p.a*math.Sin(lp) - earth.a*math.Sin(le)
	vx := -p.a*np*math.Sin(lp) + earth.a*ne*math.Sin(le)
	vy := p.a*np*math.Cos(lp) - earth.a*ne*math.Cos(le)

	r2 := dx*dx + dy*dy
	if r2 == 0 {
		return 0, 0, errors.New("degenerate geometry")
	}
	lon := deg(math.Atan2(dy, dx))
	speed := deg((dx*vy - dy*vx) / r2)
	return lon, speed, nil
}

// declination of an ecliptic point with zero latitude
func declination(lon float64) float64 {
	return deg(math.Asin(math.Sin(rad(obliquity)) * math.Sin(rad(lon))))
}

func rad(d float64) float64 { return d * math.Pi / 180 }
func deg(r float64) float64 { return r * 180 / math.Pi }
