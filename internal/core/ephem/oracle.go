// Package ephem is the position oracle boundary: the Oracle contract the engine
// consumes plus the deterministic oracles and wrappers shipped with it
package ephem

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aspectscan/internal/core/catalog"
)

// ErrOracleUnavailable wraps every per-sample oracle failure
var ErrOracleUnavailable = errors.New("position oracle unavailable")

// Center selects the origin of the coordinate frame
type Center uint8

// Frame centers
const (
	Geocentric Center = iota
	Heliocentric
)

// Zodiac selects the longitude reference
type Zodiac uint8

// Zodiacs
const (
	Tropical Zodiac = iota
	Sidereal
)

// Frame is the coordinate frame positions are reported in
type Frame struct {
	Center Center `json:"center"`
	Zodiac Zodiac `json:"zodiac"`
	// Ayanamsa at J2000 in degrees, used only for sidereal frames
	Ayanamsa float64 `json:"ayanamsa,omitempty"`
}

// LahiriJ2000 is the Lahiri ayanamsa at J2000
const LahiriJ2000 = 23.853

// Validate rejects unknown enum values and a missing sidereal ayanamsa
func (f Frame) Validate() error {
	if f.Center > Heliocentric {
		return fmt.Errorf("unknown frame center %d", f.Center)
	}
	if f.Zodiac > Sidereal {
		return fmt.Errorf("unknown zodiac %d", f.Zodiac)
	}
	if f.Zodiac == Sidereal && f.Ayanamsa == 0 {
		return errors.New("sidereal frame needs an ayanamsa")
	}
	return nil
}

// String renders e.g. "geocentric/tropical"
func (f Frame) String() string {
	c, z := "geocentric", "tropical"
	if f.Center == Heliocentric {
		c = "heliocentric"
	}
	if f.Zodiac == Sidereal {
		z = fmt.Sprintf("sidereal(%.4f)", f.Ayanamsa)
	}
	return c + "/" + z
}

// Position is one body's state at an instant
type Position struct {
	Longitude   float64 `json:"longitude"`
	Latitude    float64 `json:"latitude"`
	Declination float64 `json:"declination"`
	// Speed in longitude, degrees per day; negative while retrograde
	Speed float64 `json:"speed"`
	// SpeedKnown is false when the oracle cannot report Speed
	SpeedKnown bool `json:"speed_known"`
}

// Oracle returns body positions. Implementations must be deterministic for
// identical (bodies, t, frame) and safe for concurrent use.
type Oracle interface {
	Positions(ctx context.Context, bodies []catalog.Body, t time.Time, frame Frame) (map[catalog.Body]Position, error)
}

// Supporter is implemented by oracles that can say up front which bodies they serve
type Supporter interface {
	Supports(b catalog.Body, frame Frame) bool
}

// Supports asks o when it implements Supporter and assumes yes otherwise
func Supports(o Oracle, b catalog.Body, frame Frame) bool {
	if s, ok := o.(Supporter); ok {
		return s.Supports(b, frame)
	}
	return true
}

// Func adapts a function to Oracle
type Func func(ctx context.Context, bodies []catalog.Body, t time.Time, frame Frame) (map[catalog.Body]Position, error)

// Positions implements Oracle
func (f Func) Positions(ctx context.Context, bodies []catalog.Body, t time.Time, frame Frame) (map[catalog.Body]Position, error) {
	return f(ctx, bodies, t, frame)
}

// Unavailable wraps err as a per-sample oracle failure
func Unavailable(b catalog.Body, t time.Time, err error) error {
	return fmt.Errorf("%w: %s at %s: %v", ErrOracleUnavailable, b, t.UTC().Format(time.RFC3339), err)
}

// J2000 is the reference epoch for the built-in models
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// DaysSinceJ2000 converts t into fractional days from J2000
func DaysSinceJ2000(t time.Time) float64 {
	return float64(t.Sub(J2000)) / float64(24*time.Hour)
}
