// Package tables loads the read-only weight, orb, dignity and band tables embedded in tables.yaml
package tables

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"aspectscan/internal/core/catalog"
)

//go:embed tables.yaml
var embedded []byte

type rawBody struct {
	Weight    float64 `yaml:"weight"`
	MeanSpeed float64 `yaml:"mean_speed"`
}

type rawDignity struct {
	Domicile   []string `yaml:"domicile"`
	Exaltation []string `yaml:"exaltation"`
	Detriment  []string `yaml:"detriment"`
	Fall       []string `yaml:"fall"`
}

type rawTables struct {
	Version int                `yaml:"version"`
	Bodies  map[string]rawBody `yaml:"bodies"`
	Aspects map[string]float64 `yaml:"aspects"`
	Orbs    struct {
		Defaults     map[string]float64 `yaml:"defaults"`
		ClassFactors map[string]float64 `yaml:"class_factors"`
	} `yaml:"orbs"`
	Dignities map[string]rawDignity `yaml:"dignities"`
	Modifiers Modifiers             `yaml:"modifiers"`
	Bands     Bands                 `yaml:"bands"`
}

// BodyInfo is the per-body row
type BodyInfo struct {
	Weight    float64
	MeanSpeed float64
}

// OrbTable is the built-in default orb table
type OrbTable struct {
	// Defaults is the base orb by aspect name or family
	Defaults map[string]float64
	// ClassFactors scale the base orb by the widest participating class
	ClassFactors map[catalog.Class]float64
}

// Modifiers are the severity adjustments
type Modifiers struct {
	Applying     float64 `yaml:"applying" json:"applying"`
	Separating   float64 `yaml:"separating" json:"separating"`
	Retrograde   float64 `yaml:"retrograde" json:"retrograde"`
	Station      float64 `yaml:"station" json:"station"`
	StationRatio float64 `yaml:"station_ratio" json:"station_ratio"`
	Angularity   float64 `yaml:"angularity" json:"angularity"`
	Partile      float64 `yaml:"partile" json:"partile"`
	PartileOrb   float64 `yaml:"partile_orb" json:"partile_orb"`
	Domicile     float64 `yaml:"domicile" json:"domicile"`
	Exaltation   float64 `yaml:"exaltation" json:"exaltation"`
	Detriment    float64 `yaml:"detriment" json:"detriment"`
	Fall         float64 `yaml:"fall" json:"fall"`
}

// Bands holds the lower edges of the moderate, strong and peak bands
type Bands struct {
	Moderate float64 `yaml:"moderate" json:"moderate"`
	Strong   float64 `yaml:"strong" json:"strong"`
	Peak     float64 `yaml:"peak" json:"peak"`
}

// Dignity is the essential dignity of a body in a sign
type Dignity uint8

// Dignities, strongest first
const (
	Peregrine Dignity = iota
	Domicile
	Exaltation
	Detriment
	Fall
)

var dignityNames = [...]string{"peregrine", "domicile", "exaltation", "detriment", "fall"}

func (d Dignity) String() string {
	if int(d) >= len(dignityNames) {
		return fmt.Sprintf("dignity(%d)", uint8(d))
	}
	return dignityNames[d]
}

// Tables is the parsed, validated table set. Treat it as read-only.
type Tables struct {
	Version   int
	Bodies    map[catalog.Body]BodyInfo
	Aspects   map[string]float64
	Orbs      OrbTable
	Dignities map[catalog.Body]map[catalog.Sign]Dignity
	Modifiers Modifiers
	Bands     Bands
}

var (
	once    sync.Once
	shared  *Tables
	loadErr error
)

// Load returns the embedded tables, parsed once per process
func Load() (*Tables, error) {
	once.Do(func() { shared, loadErr = Parse(embedded) })
	return shared, loadErr
}

// MustLoad panics when the embedded tables are broken
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Parse decodes and validates a tables document
func Parse(b []byte) (*Tables, error) {
	var raw rawTables
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("tables: parse: %w", err)
	}
	if raw.Version != 1 {
		return nil, fmt.Errorf("tables: unsupported version %d (want 1)", raw.Version)
	}

	t := &Tables{
		Version:   raw.Version,
		Bodies:    make(map[catalog.Body]BodyInfo, len(raw.Bodies)),
		Aspects:   raw.Aspects,
		Dignities: make(map[catalog.Body]map[catalog.Sign]Dignity, len(raw.Dignities)),
		Modifiers: raw.Modifiers,
		Bands:     raw.Bands,
		Orbs: OrbTable{
			Defaults:     raw.Orbs.Defaults,
			ClassFactors: make(map[catalog.Class]float64, len(raw.Orbs.ClassFactors)),
		},
	}

	for name, rb := range raw.Bodies {
		b, err := catalog.ParseBody(name)
		if err != nil {
			return nil, fmt.Errorf("tables: bodies: %w", err)
		}
		if rb.Weight <= 0 || rb.MeanSpeed < 0 {
			return nil, fmt.Errorf("tables: bodies: %s has weight %v mean_speed %v", name, rb.Weight, rb.MeanSpeed)
		}
		t.Bodies[b] = BodyInfo(rb)
	}
	for name, f := range raw.Orbs.ClassFactors {
		c, err := catalog.ParseClass(name)
		if err != nil {
			return nil, fmt.Errorf("tables: class_factors: %w", err)
		}
		if f <= 0 {
			return nil, fmt.Errorf("tables: class_factors: %s must be > 0", name)
		}
		t.Orbs.ClassFactors[c] = f
	}
	for name, rd := range raw.Dignities {
		b, err := catalog.ParseBody(name)
		if err != nil {
			return nil, fmt.Errorf("tables: dignities: %w", err)
		}
		row := make(map[catalog.Sign]Dignity, 6)
		// weakest first so stronger dignities overwrite shared signs
		for _, set := range []struct {
			d     Dignity
			signs []string
		}{{Fall, rd.Fall}, {Detriment, rd.Detriment}, {Exaltation, rd.Exaltation}, {Domicile, rd.Domicile}} {
			for _, s := range set.signs {
				sign, err := catalog.ParseSign(s)
				if err != nil {
					return nil, fmt.Errorf("tables: dignities: %s: %w", name, err)
				}
				row[sign] = set.d
			}
		}
		t.Dignities[b] = row
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// every catalog body and aspect family must resolve, so lookups never fall through
func (t *Tables) validate() error {
	for _, b := range catalog.AllBodies() {
		if _, ok := t.Bodies[b]; !ok {
			return fmt.Errorf("tables: bodies: missing %s", b)
		}
		if _, ok := t.Orbs.ClassFactors[b.Class()]; !ok {
			return fmt.Errorf("tables: class_factors: missing %s", b.Class())
		}
	}
	families := []string{catalog.FamilyHarmonic}
	for _, a := range catalog.AllAspects() {
		families = append(families, a.String())
	}
	for _, f := range families {
		if v, ok := t.Orbs.Defaults[f]; !ok || v <= 0 {
			return fmt.Errorf("tables: orbs: missing or non-positive default for %s", f)
		}
		if v, ok := t.Aspects[f]; !ok || v <= 0 {
			return fmt.Errorf("tables: aspects: missing or non-positive weight for %s", f)
		}
	}
	b := t.Bands
	if !(0 < b.Moderate && b.Moderate < b.Strong && b.Strong < b.Peak && b.Peak <= 1) {
		return fmt.Errorf("tables: bands must satisfy 0 < moderate < strong < peak <= 1, got %+v", b)
	}
	return nil
}

// BodyWeight is the severity weight of b
func (t *Tables) BodyWeight(b catalog.Body) float64 { return t.Bodies[b].Weight }

// PointWeight averages the weights of a point's constituents
func (t *Tables) PointWeight(p catalog.Point) float64 {
	bs := p.Bodies()
	var sum float64
	for _, b := range bs {
		sum += t.BodyWeight(b)
	}
	return sum / float64(len(bs))
}

// AspectWeight is the severity weight of an aspect angle
func (t *Tables) AspectWeight(a catalog.AspectAngle) float64 {
	if w, ok := t.Aspects[a.Key()]; ok {
		return w
	}
	return t.Aspects[a.Family()]
}

// DignityOf reports the essential dignity of b in sign s; bodies without a row are peregrine
func (t *Tables) DignityOf(b catalog.Body, s catalog.Sign) Dignity {
	return t.Dignities[b][s]
}

// DignityFactor maps a dignity onto its severity multiplier
func (t *Tables) DignityFactor(d Dignity) float64 {
	switch d {
	case Domicile:
		return t.Modifiers.Domicile
	case Exaltation:
		return t.Modifiers.Exaltation
	case Detriment:
		return t.Modifiers.Detriment
	case Fall:
		return t.Modifiers.Fall
	}
	return 1
}

// Stationary reports whether speed is slow enough, relative to b's mean motion, to count as a station
func (t *Tables) Stationary(b catalog.Body, speed float64) bool {
	ms := t.Bodies[b].MeanSpeed
	if ms == 0 {
		return false
	}
	if speed < 0 {
		speed = -speed
	}
	return speed < t.Modifiers.StationRatio*ms
}
