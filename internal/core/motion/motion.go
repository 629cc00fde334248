// Package motion classifies whether a pair is closing on or leaving an aspect
package motion

import "math"

// Applying reports whether |residual| shrinks from before to after. Both
// residuals must come from angle.WrapDelta against the same target so the
// comparison holds across the 0/360 seam.
func Applying(before, after float64) bool {
	return math.Abs(after) < math.Abs(before)
}

// ApplyingRate is the instantaneous form: the residual and its rate have opposite signs
func ApplyingRate(residual, rate float64) bool {
	return residual*rate < 0
}
