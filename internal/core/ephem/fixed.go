package ephem

import (
	"context"
	"time"

	"aspectscan/internal/core/angle"
	"aspectscan/internal/core/catalog"
)

type fixed struct {
	inner  Oracle
	points map[catalog.Body]float64
}

// WithFixed serves the given bodies at constant longitudes with zero speed and
// delegates everything else to inner. inner may be nil when every requested
// body is fixed. points is copied.
func WithFixed(inner Oracle, points map[catalog.Body]float64) Oracle {
	if len(points) == 0 && inner != nil {
		return inner
	}
	cp := make(map[catalog.Body]float64, len(points))
	for b, lon := range points {
		cp[b] = angle.Normalize(lon)
	}
	return fixed{inner: inner, points: cp}
}

// Supports implements Supporter
func (f fixed) Supports(b catalog.Body, frame Frame) bool {
	if _, ok := f.points[b]; ok {
		return true
	}
	return f.inner != nil && Supports(f.inner, b, frame)
}

// Positions implements Oracle
func (f fixed) Positions(ctx context.Context, bodies []catalog.Body, t time.Time, frame Frame) (map[catalog.Body]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[catalog.Body]Position, len(bodies))
	var rest []catalog.Body
	for _, b := range bodies {
		lon, ok := f.points[b]
		if !ok {
			rest = append(rest, b)
			continue
		}
		out[b] = Position{Longitude: lon, Declination: declination(lon), SpeedKnown: true}
	}
	if len(rest) == 0 {
		return out, nil
	}
	if f.inner == nil {
		return nil, Unavailable(rest[0], t, errUnsupported)
	}
	got, err := f.inner.Positions(ctx, rest, t, frame)
	if err != nil {
		return nil, err
	}
	for b, p := range got {
		out[b] = p
	}
	return out, nil
}
