package service

import (
	"context"
	"testing"
	"time"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/orb"
	perr "aspectscan/internal/platform/errors"
	"aspectscan/internal/services/policies/domain"
	"aspectscan/internal/services/policies/repo"
)

var tight = domain.Record{
	ID:        "tight",
	Name:      "Tight orbs",
	PerObject: map[string]float64{"Moon": 6, "asc": 3},
	PerAspect: map[string]float64{"Square": 5, "h7": 0.5, "harmonic": 0.8},
	Adaptive:  map[string]float64{"luminaries": 1.1},
	UpdatedAt: time.Date(2031, 1, 2, 0, 0, 0, 0, time.UTC),
}

func TestGet_ConvertsKeys(t *testing.T) {
	svc := New(repo.NewMemory(tight))

	p, err := svc.Get(context.Background(), "tight")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.PerObject[catalog.Moon] != 6 || p.PerObject[catalog.Ascendant] != 3 {
		t.Fatalf("per_object = %v", p.PerObject)
	}
	if p.PerAspect["square"] != 5 || p.PerAspect["h7"] != 0.5 || p.PerAspect["harmonic"] != 0.8 {
		t.Fatalf("per_aspect = %v", p.PerAspect)
	}
	if p.Adaptive[orb.RuleLuminaries] != 1.1 {
		t.Fatalf("adaptive = %v", p.Adaptive)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := New(repo.NewMemory())
	_, err := svc.Get(context.Background(), "nope")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestToPolicy_RejectsBadRecords(t *testing.T) {
	cases := map[string]domain.Record{
		"unknown body":   {ID: "x", PerObject: map[string]float64{"vulcan": 2}},
		"unknown aspect": {ID: "x", PerAspect: map[string]float64{"novile-ish": 2}},
		"harmonic one":   {ID: "x", PerAspect: map[string]float64{"h1": 2}},
		"unknown rule":   {ID: "x", Adaptive: map[string]float64{"retrogrades": 2}},
		"zero orb":       {ID: "x", PerObject: map[string]float64{"sun": 0}},
	}
	for name, rec := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ToPolicy(rec)
			if !perr.IsCode(err, perr.ErrorCodeInvalidConfig) {
				t.Fatalf("want invalid config, got %v", err)
			}
		})
	}
}

func TestList_Summaries(t *testing.T) {
	svc := New(repo.NewMemory(tight, domain.Record{ID: "a-default", Name: "Defaults"}))
	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a-default" || got[1].Name != "Tight orbs" {
		t.Fatalf("List = %+v", got)
	}
}
