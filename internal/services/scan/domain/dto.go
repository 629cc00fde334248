// Package domain holds the scan request and response contracts
package domain

import (
	"time"

	"aspectscan/internal/core/hit"
	"aspectscan/internal/core/rank"
	"aspectscan/internal/core/scan"
)

// PairInput names one explicit pair; either side may be a midpoint ("sun/moon")
type PairInput struct {
	A string `json:"a" validate:"required,point"`
	B string `json:"b" validate:"required,point"`
}

// PolicyInput is an inline orb policy keyed by wire names
type PolicyInput struct {
	PerObject map[string]float64 `json:"per_object,omitempty" validate:"omitempty,dive,keys,body,endkeys,gt=0"`
	PerAspect map[string]float64 `json:"per_aspect,omitempty" validate:"omitempty,dive,gt=0"`
	Adaptive  map[string]float64 `json:"adaptive,omitempty" validate:"omitempty,dive,gt=0"`
}

// FrameInput selects the coordinate frame
type FrameInput struct {
	Center   string  `json:"center,omitempty" validate:"omitempty,oneof=geocentric heliocentric"`
	Zodiac   string  `json:"zodiac,omitempty" validate:"omitempty,oneof=tropical sidereal"`
	Ayanamsa float64 `json:"ayanamsa,omitempty" validate:"omitempty,gt=0,lt=360"`
}

// Request is one scan as submitted over the wire
type Request struct {
	Objects   []string    `json:"objects,omitempty" validate:"omitempty,dive,body"`
	Midpoints []string    `json:"midpoints,omitempty" validate:"omitempty,dive,point"`
	Pairs     []PairInput `json:"pairs,omitempty" validate:"omitempty,dive"`

	Aspects   []string `json:"aspects,omitempty" validate:"omitempty,dive,aspect"`
	Harmonics []int    `json:"harmonics,omitempty" validate:"omitempty,dive,min=2,max=360"`

	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required,gtfield=Start"`
	// Step is a Go duration ("6h"); empty uses the service default
	Step string `json:"step,omitempty"`

	Order  string `json:"order,omitempty" validate:"omitempty,oneof=time severity orb"`
	Limit  int    `json:"limit,omitempty" validate:"omitempty,min=0,max=5000"`
	Offset int    `json:"offset,omitempty" validate:"omitempty,min=0"`

	// PolicyID names a stored policy; Policy entries override it key by key
	PolicyID string      `json:"policy_id,omitempty" validate:"omitempty,max=64"`
	Policy   PolicyInput `json:"policy"`

	Frame FrameInput         `json:"frame"`
	Fixed map[string]float64 `json:"fixed,omitempty" validate:"omitempty,dive,keys,body,endkeys,gte=0,lt=360"`
	AsOf  time.Time          `json:"as_of,omitzero"`

	OrbWindows bool `json:"orb_windows,omitempty"`
}

// Response is one page of a scan run
type Response struct {
	RunID       string            `json:"run_id"`
	Hits        []hit.Hit         `json:"hits"`
	Total       int               `json:"total"`
	Limit       int               `json:"limit"`
	Offset      int               `json:"offset"`
	Diagnostics []scan.Diagnostic `json:"diagnostics"`
	Stats       scan.Stats        `json:"stats"`
	// Persisted is set when the full hit list was written to storage
	Persisted bool `json:"persisted"`
}

// CompositeRequest aggregates a full scan into time bins
type CompositeRequest struct {
	Request
	Period string `json:"period,omitempty" validate:"omitempty,oneof=day daily month monthly"`
	Agg    string `json:"agg,omitempty" validate:"omitempty,oneof=sum mean weighted_mean"`
}

// CompositeResponse carries the bins of one composite run
type CompositeResponse struct {
	RunID       string            `json:"run_id"`
	Period      string            `json:"period"`
	Agg         string            `json:"agg"`
	Bins        []rank.Bin        `json:"bins"`
	Total       int               `json:"total"`
	Diagnostics []scan.Diagnostic `json:"diagnostics"`
}
