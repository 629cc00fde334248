// Package http serves the read-only catalog of bodies and aspects
package http

import (
	stdhttp "net/http"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/modkit/httpkit"
	perr "aspectscan/internal/platform/errors"
)

// BodyView is one catalog body
type BodyView struct {
	Name    string `json:"name"`
	Display string `json:"display"`
	Class   string `json:"class"`
}

// AspectView is one named aspect or harmonic angle
type AspectView struct {
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Display  string  `json:"display"`
	Family   string  `json:"family"`
	Degrees  float64 `json:"degrees"`
	Major    bool    `json:"major"`
	Harmonic int     `json:"harmonic,omitempty"`
}

// HarmonicsRequest expands named aspects and harmonics into target angles
type HarmonicsRequest struct {
	Aspects   []string `json:"aspects,omitempty"`
	Harmonics []int    `json:"harmonics" validate:"omitempty,dive,min=2,max=360"`
}

// Register mounts the catalog endpoints
func Register(r httpkit.Router) {
	httpkit.Get(r, "/bodies", bodies)
	httpkit.Get(r, "/aspects", aspects)
	httpkit.PostJSON[HarmonicsRequest](r, "/harmonics", harmonics)
}

func bodies(*stdhttp.Request) (any, error) {
	all := catalog.AllBodies()
	out := make([]BodyView, 0, len(all))
	for _, b := range all {
		out = append(out, BodyView{Name: b.String(), Display: b.DisplayName(), Class: b.Class().String()})
	}
	return out, nil
}

func aspects(*stdhttp.Request) (any, error) {
	all := catalog.AllAspects()
	out := make([]AspectView, 0, len(all))
	for _, a := range all {
		out = append(out, view(catalog.Named(a)))
	}
	return out, nil
}

func harmonics(_ *stdhttp.Request, in HarmonicsRequest) (any, error) {
	names := make([]catalog.Aspect, 0, len(in.Aspects))
	for _, s := range in.Aspects {
		a, err := catalog.ParseAspect(s)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("unknown aspect %q", s), "aspects")
		}
		names = append(names, a)
	}
	angles, err := catalog.Expand(names, in.Harmonics)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "bad harmonics: %v", err), "harmonics")
	}
	out := make([]AspectView, 0, len(angles))
	for _, a := range angles {
		out = append(out, view(a))
	}
	return out, nil
}

func view(a catalog.AspectAngle) AspectView {
	return AspectView{
		Key:      a.Key(),
		Label:    a.Label(),
		Display:  a.DisplayName(),
		Family:   a.Family(),
		Degrees:  a.Degrees,
		Major:    !a.Minor(),
		Harmonic: a.Harmonic,
	}
}
