package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// cases.Caser is stateful, so each call gets its own
func title(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// DisplayName is the title-cased label, e.g. "North Node"
func (b Body) DisplayName() string { return title(b.String()) }

// DisplayName is the title-cased label, e.g. "Sesquiquadrate"
func (a Aspect) DisplayName() string { return title(a.String()) }

// DisplayName is the title-cased label, e.g. "Sun/Moon"
func (p Point) DisplayName() string {
	if p.IsMidpoint() {
		return p.A.DisplayName() + "/" + p.B.DisplayName()
	}
	return p.A.DisplayName()
}

// DisplayName renders named aspects by name and harmonic angles as "H7 2"
func (a AspectAngle) DisplayName() string {
	if a.IsNamed() {
		return a.Name.DisplayName()
	}
	return strings.ToUpper(strings.Replace(a.Label(), ".", " ", 1))
}
