package catalog

import (
	"fmt"
	"strings"
)

// Point is a scan participant: a single body, or the midpoint of A and B
type Point struct {
	A Body `json:"a"`
	B Body `json:"b,omitempty"`
}

// Single wraps a body as a point
func Single(b Body) Point { return Point{A: b} }

// Midpoint builds the midpoint of two bodies, ordered so a/b and b/a are the same point
func Midpoint(a, b Body) Point {
	if b < a {
		a, b = b, a
	}
	return Point{A: a, B: b}
}

// IsMidpoint reports whether the point combines two bodies
func (p Point) IsMidpoint() bool { return p.B != BodyNone }

// Valid reports whether every constituent is a declared body
func (p Point) Valid() bool {
	if !p.A.Valid() {
		return false
	}
	if p.IsMidpoint() {
		return p.B.Valid() && p.A != p.B
	}
	return true
}

// Bodies lists the constituents
func (p Point) Bodies() []Body {
	if p.IsMidpoint() {
		return []Body{p.A, p.B}
	}
	return []Body{p.A}
}

// Has reports whether b is a constituent
func (p Point) Has(b Body) bool { return p.A == b || p.B == b }

// Overlaps reports whether p and q share a body
func (p Point) Overlaps(q Point) bool {
	for _, b := range q.Bodies() {
		if p.Has(b) {
			return true
		}
	}
	return false
}

// Less orders points by their constituents
func (p Point) Less(q Point) bool {
	if p.A != q.A {
		return p.A < q.A
	}
	return p.B < q.B
}

// String renders "sun" or "sun/moon"
func (p Point) String() string {
	if p.IsMidpoint() {
		return p.A.String() + "/" + p.B.String()
	}
	return p.A.String()
}

// MarshalText implements encoding.TextMarshaler
func (p Point) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid point %v", [2]Body{p.A, p.B})
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Point) UnmarshalText(b []byte) error {
	v, err := ParsePoint(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePoint accepts "sun" or "sun/moon"
func ParsePoint(s string) (Point, error) {
	left, right, mid := strings.Cut(s, "/")
	a, err := ParseBody(left)
	if err != nil {
		return Point{}, err
	}
	if !mid {
		return Single(a), nil
	}
	b, err := ParseBody(right)
	if err != nil {
		return Point{}, err
	}
	if a == b {
		return Point{}, fmt.Errorf("midpoint %q repeats %s", s, a)
	}
	return Midpoint(a, b), nil
}

// Pair is an unordered scan pair, stored with the lower point first
type Pair struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// NewPair orders the two points
func NewPair(a, b Point) Pair {
	if b.Less(a) {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// String renders "a-b"
func (p Pair) String() string { return p.A.String() + "-" + p.B.String() }
