// Package angle holds the wrap-safe angular primitives every other core package builds on
package angle

import "math"

// Full is one turn in degrees
const Full = 360.0

// Normalize maps deg into [0,360)
func Normalize(deg float64) float64 {
	r := math.Mod(deg, Full)
	if r < 0 {
		r += Full
	}
	// -1e-15 + 360 rounds to exactly 360
	if r >= Full {
		r = 0
	}
	return r
}

// WrapDelta returns the shortest signed path from b to a in (-180,180]
func WrapDelta(a, b float64) float64 {
	d := Normalize(a - b)
	if d > Full/2 {
		d -= Full
	}
	return d
}

// Separation is the unsigned shortest arc between a and b in [0,180]
func Separation(a, b float64) float64 {
	return math.Abs(WrapDelta(a, b))
}

// ModularAverage returns the midpoint of the shorter arc between a and b.
// Exactly opposed inputs resolve to b+90.
func ModularAverage(a, b float64) float64 {
	return Normalize(b + WrapDelta(a, b)/2)
}

// Continuous reports whether two consecutive wrapped residuals are joined
// without a seam jump, so a sign flip between them is a real zero crossing
func Continuous(r0, r1 float64) bool {
	return math.Abs(r1-r0) < Full/2
}

// SignChange reports a continuous sign change (or touch of zero) between r0 and r1
func SignChange(r0, r1 float64) bool {
	if !Continuous(r0, r1) {
		return false
	}
	return (r0 <= 0 && r1 >= 0) || (r0 >= 0 && r1 <= 0)
}
