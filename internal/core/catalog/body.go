// Package catalog defines the closed body and aspect enumerations the engine matches on
package catalog

import (
	"fmt"
	"strings"
)

// Body identifies a scan participant
type Body uint8

// Bodies known to the engine. BodyNone is the zero value and never valid.
const (
	BodyNone Body = iota
	Sun
	Moon
	Mercury
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Chiron
	NorthNode
	SouthNode
	Ascendant
	Midheaven
	Descendant
	ImumCoeli
	bodyEnd
)

// Class groups bodies for orb defaults, weights and adaptive rules
type Class uint8

// Body classes
const (
	ClassNone Class = iota
	ClassLuminary
	ClassPersonal
	ClassSocial
	ClassOuter
	ClassMinor
	ClassPoint
	ClassAngle
)

var bodyNames = [...]string{
	BodyNone:   "",
	Sun:        "sun",
	Moon:       "moon",
	Mercury:    "mercury",
	Venus:      "venus",
	Mars:       "mars",
	Jupiter:    "jupiter",
	Saturn:     "saturn",
	Uranus:     "uranus",
	Neptune:    "neptune",
	Pluto:      "pluto",
	Chiron:     "chiron",
	NorthNode:  "north_node",
	SouthNode:  "south_node",
	Ascendant:  "ascendant",
	Midheaven:  "midheaven",
	Descendant: "descendant",
	ImumCoeli:  "imum_coeli",
}

var bodyClasses = [...]Class{
	Sun:        ClassLuminary,
	Moon:       ClassLuminary,
	Mercury:    ClassPersonal,
	Venus:      ClassPersonal,
	Mars:       ClassPersonal,
	Jupiter:    ClassSocial,
	Saturn:     ClassSocial,
	Uranus:     ClassOuter,
	Neptune:    ClassOuter,
	Pluto:      ClassOuter,
	Chiron:     ClassMinor,
	NorthNode:  ClassPoint,
	SouthNode:  ClassPoint,
	Ascendant:  ClassAngle,
	Midheaven:  ClassAngle,
	Descendant: ClassAngle,
	ImumCoeli:  ClassAngle,
}

var classNames = [...]string{
	ClassNone:     "",
	ClassLuminary: "luminary",
	ClassPersonal: "personal",
	ClassSocial:   "social",
	ClassOuter:    "outer",
	ClassMinor:    "minor",
	ClassPoint:    "point",
	ClassAngle:    "angle",
}

// AllBodies lists every valid body in declaration order
func AllBodies() []Body {
	out := make([]Body, 0, int(bodyEnd)-1)
	for b := Sun; b < bodyEnd; b++ {
		out = append(out, b)
	}
	return out
}

// Valid reports whether b is a declared body
func (b Body) Valid() bool { return b > BodyNone && b < bodyEnd }

// String returns the wire name
func (b Body) String() string {
	if !b.Valid() {
		return fmt.Sprintf("body(%d)", uint8(b))
	}
	return bodyNames[b]
}

// Class returns the body's class
func (b Body) Class() Class {
	if !b.Valid() {
		return ClassNone
	}
	return bodyClasses[b]
}

// IsAngle reports whether b is a chart angle (always a fixed reference point)
func (b Body) IsAngle() bool { return b.Class() == ClassAngle }

// MarshalText implements encoding.TextMarshaler
func (b Body) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("invalid body %d", uint8(b))
	}
	return []byte(bodyNames[b]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (b *Body) UnmarshalText(p []byte) error {
	v, err := ParseBody(string(p))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseBody resolves a wire name, accepting case and separator variants
func ParseBody(s string) (Body, error) {
	key := canon(s)
	for b := Sun; b < bodyEnd; b++ {
		if bodyNames[b] == key {
			return b, nil
		}
	}
	switch key {
	case "asc":
		return Ascendant, nil
	case "mc":
		return Midheaven, nil
	case "dsc", "desc":
		return Descendant, nil
	case "ic":
		return ImumCoeli, nil
	case "node", "true_node", "mean_node":
		return NorthNode, nil
	}
	return BodyNone, fmt.Errorf("unknown body %q", s)
}

// String returns the class wire name
func (c Class) String() string {
	if int(c) >= len(classNames) {
		return fmt.Sprintf("class(%d)", uint8(c))
	}
	return classNames[c]
}

// ParseClass resolves a class wire name
func ParseClass(s string) (Class, error) {
	key := canon(s)
	for c := ClassLuminary; int(c) < len(classNames); c++ {
		if classNames[c] == key {
			return c, nil
		}
	}
	return ClassNone, fmt.Errorf("unknown body class %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Class) UnmarshalText(p []byte) error {
	v, err := ParseClass(string(p))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func canon(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	return s
}
