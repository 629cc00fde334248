package catalog

import "fmt"

// Aspect names a canonical aspect
type Aspect uint8

// Named aspects. AspectNone marks a harmonic-derived angle.
const (
	AspectNone Aspect = iota
	Conjunction
	SemiSextile
	SemiSquare
	Sextile
	Quintile
	Square
	Trine
	Sesquiquadrate
	Biquintile
	Quincunx
	Opposition
	aspectEnd
)

type aspectInfo struct {
	name    string
	degrees float64
	major   bool
}

var aspects = [...]aspectInfo{
	AspectNone:     {},
	Conjunction:    {"conjunction", 0, true},
	SemiSextile:    {"semisextile", 30, false},
	SemiSquare:     {"semisquare", 45, false},
	Sextile:        {"sextile", 60, true},
	Quintile:       {"quintile", 72, false},
	Square:         {"square", 90, true},
	Trine:          {"trine", 120, true},
	Sesquiquadrate: {"sesquiquadrate", 135, false},
	Biquintile:     {"biquintile", 144, false},
	Quincunx:       {"quincunx", 150, false},
	Opposition:     {"opposition", 180, true},
}

// AllAspects lists every named aspect ordered by angle
func AllAspects() []Aspect {
	out := make([]Aspect, 0, int(aspectEnd)-1)
	for a := Conjunction; a < aspectEnd; a++ {
		out = append(out, a)
	}
	return out
}

// MajorAspects lists the Ptolemaic aspects
func MajorAspects() []Aspect {
	var out []Aspect
	for a := Conjunction; a < aspectEnd; a++ {
		if aspects[a].major {
			out = append(out, a)
		}
	}
	return out
}

// Valid reports whether a is a declared named aspect
func (a Aspect) Valid() bool { return a > AspectNone && a < aspectEnd }

// Degrees is the exact angle of the aspect
func (a Aspect) Degrees() float64 {
	if !a.Valid() {
		return 0
	}
	return aspects[a].degrees
}

// Major reports whether a is one of the five Ptolemaic aspects
func (a Aspect) Major() bool { return a.Valid() && aspects[a].major }

// String returns the wire name
func (a Aspect) String() string {
	if !a.Valid() {
		return fmt.Sprintf("aspect(%d)", uint8(a))
	}
	return aspects[a].name
}

// MarshalText implements encoding.TextMarshaler
func (a Aspect) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("invalid aspect %d", uint8(a))
	}
	return []byte(aspects[a].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Aspect) UnmarshalText(p []byte) error {
	v, err := ParseAspect(string(p))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAspect resolves a wire name
func ParseAspect(s string) (Aspect, error) {
	key := canon(s)
	for a := Conjunction; a < aspectEnd; a++ {
		if aspects[a].name == key {
			return a, nil
		}
	}
	switch key {
	case "semi_sextile":
		return SemiSextile, nil
	case "semi_square":
		return SemiSquare, nil
	case "sesquisquare", "sesqui_quadrate":
		return Sesquiquadrate, nil
	case "inconjunct":
		return Quincunx, nil
	}
	return AspectNone, fmt.Errorf("unknown aspect %q", s)
}
