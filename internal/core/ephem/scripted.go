package ephem

import (
	"context"
	"errors"
	"math"
	"time"

	"aspectscan/internal/core/angle"
	"aspectscan/internal/core/catalog"
)

// Track gives a body's longitude and speed (deg/day) at d days past the epoch
type Track func(d float64) (lon, speed float64)

// Linear moves at a constant speed from lon0
func Linear(lon0, speed float64) Track {
	return func(d float64) (float64, float64) { return lon0 + speed*d, speed }
}

// Swing oscillates around center with the given amplitude (deg) and period (days);
// speed reverses twice per period, like a planet looping through a station
func Swing(center, amplitude, period float64) Track {
	w := 2 * math.Pi / period
	return func(d float64) (float64, float64) {
		return center + amplitude*math.Sin(w*d), amplitude * w * math.Cos(w*d)
	}
}

// Scripted is an Oracle driven by explicit tracks, for scenarios and fixtures
type Scripted struct {
	Epoch  time.Time
	Tracks map[catalog.Body]Track
	// NoSpeed hides speeds so callers must difference
	NoSpeed bool
	// Fail, when set, makes matching instants unavailable
	Fail func(t time.Time) bool
}

var errScriptedGap = errors.New("scripted gap")

// Supports implements Supporter
func (s Scripted) Supports(b catalog.Body, _ Frame) bool {
	_, ok := s.Tracks[b]
	return ok
}

// Positions implements Oracle
func (s Scripted) Positions(ctx context.Context, bodies []catalog.Body, t time.Time, _ Frame) (map[catalog.Body]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := float64(t.Sub(s.Epoch)) / float64(24*time.Hour)
	out := make(map[catalog.Body]Position, len(bodies))
	for _, b := range bodies {
		tr, ok := s.Tracks[b]
		if !ok {
			return nil, Unavailable(b, t, errUnsupported)
		}
		if s.Fail != nil && s.Fail(t) {
			return nil, Unavailable(b, t, errScriptedGap)
		}
		lon, speed := tr(d)
		lon = angle.Normalize(lon)
		p := Position{Longitude: lon, Declination: declination(lon), Speed: speed, SpeedKnown: !s.NoSpeed}
		if s.NoSpeed {
			p.Speed = 0
		}
		out[b] = p
	}
	return out, nil
}
