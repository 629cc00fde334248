// Package domain defines persisted hit rows and the hits ports
package domain

import "time"

// Row is one persisted hit. Points and aspects travel as their wire names.
type Row struct {
	RunID    string    `json:"run_id"`
	A        string    `json:"a"`
	B        string    `json:"b"`
	Aspect   string    `json:"aspect"`
	Target   float64   `json:"target"`
	Exact    time.Time `json:"exact"`
	Orb      float64   `json:"orb"`
	OrbLimit float64   `json:"orb_limit"`
	Applying bool      `json:"applying"`
	Severity float64   `json:"severity"`
	Band     string    `json:"band"`
	Weight   float64   `json:"weight"`

	Retrograde bool `json:"retrograde,omitempty"`
	Station    bool `json:"station,omitempty"`
	Angular    bool `json:"angular,omitempty"`
	Partile    bool `json:"partile,omitempty"`
	Split      bool `json:"split,omitempty"`
}
