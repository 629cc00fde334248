// Package domain defines the stored orb policy types and ports
package domain

import "time"

// Record is an orb policy as stored: keys are the wire names
type Record struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	PerObject map[string]float64 `json:"per_object,omitempty"`
	PerAspect map[string]float64 `json:"per_aspect,omitempty"`
	Adaptive  map[string]float64 `json:"adaptive,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Summary is the listing row
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}
