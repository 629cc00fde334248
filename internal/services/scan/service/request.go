package service

import (
	"fmt"
	"time"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/ephem"
	"aspectscan/internal/core/orb"
	"aspectscan/internal/core/rank"
	"aspectscan/internal/core/scan"
	perr "aspectscan/internal/platform/errors"
	policysvc "aspectscan/internal/services/policies/service"
	policydom "aspectscan/internal/services/policies/domain"
	dom "aspectscan/internal/services/scan/domain"
)

// ToConfig parses a wire request into an engine config. The inline policy is
// returned on the config; stored policies are merged by the caller.
func ToConfig(req dom.Request, defaultStep time.Duration) (scan.Config, error) {
	cfg := scan.Config{
		Harmonics:  req.Harmonics,
		Start:      req.Start.UTC(),
		End:        req.End.UTC(),
		Step:       defaultStep,
		Limit:      req.Limit,
		Offset:     req.Offset,
		OrbWindows: req.OrbWindows,
	}
	if !req.AsOf.IsZero() {
		cfg.AsOf = req.AsOf.UTC()
	}

	for _, s := range req.Objects {
		b, err := catalog.ParseBody(s)
		if err != nil {
			return scan.Config{}, bad("objects", err)
		}
		cfg.Objects = append(cfg.Objects, b)
	}
	for _, s := range req.Midpoints {
		p, err := catalog.ParsePoint(s)
		if err != nil {
			return scan.Config{}, bad("midpoints", err)
		}
		cfg.Midpoints = append(cfg.Midpoints, p)
	}
	for _, in := range req.Pairs {
		a, err := catalog.ParsePoint(in.A)
		if err != nil {
			return scan.Config{}, bad("pairs", err)
		}
		b, err := catalog.ParsePoint(in.B)
		if err != nil {
			return scan.Config{}, bad("pairs", err)
		}
		cfg.Pairs = append(cfg.Pairs, catalog.NewPair(a, b))
	}
	for _, s := range req.Aspects {
		a, err := catalog.ParseAspect(s)
		if err != nil {
			return scan.Config{}, bad("aspects", err)
		}
		cfg.Aspects = append(cfg.Aspects, a)
	}

	if req.Step != "" {
		d, err := time.ParseDuration(req.Step)
		if err != nil {
			return scan.Config{}, bad("step", err)
		}
		cfg.Step = d
	}

	o, err := rank.ParseOrder(req.Order)
	if err != nil {
		return scan.Config{}, bad("order", err)
	}
	cfg.Order = o

	frame, err := toFrame(req.Frame)
	if err != nil {
		return scan.Config{}, bad("frame", err)
	}
	cfg.Frame = frame

	if len(req.Fixed) > 0 {
		cfg.Fixed = make(map[catalog.Body]float64, len(req.Fixed))
		for k, v := range req.Fixed {
			b, err := catalog.ParseBody(k)
			if err != nil {
				return scan.Config{}, bad("fixed", err)
			}
			cfg.Fixed[b] = v
		}
	}

	p, err := InlinePolicy(req.Policy)
	if err != nil {
		return scan.Config{}, err
	}
	cfg.Policy = p
	return cfg, nil
}

// InlinePolicy converts a wire policy with the stored-policy key rules
func InlinePolicy(in dom.PolicyInput) (orb.Policy, error) {
	return policysvc.ToPolicy(policydom.Record{
		ID:        "inline",
		PerObject: in.PerObject,
		PerAspect: in.PerAspect,
		Adaptive:  in.Adaptive,
	})
}

func toFrame(in dom.FrameInput) (ephem.Frame, error) {
	var f ephem.Frame
	switch in.Center {
	case "", "geocentric":
	case "heliocentric":
		f.Center = ephem.Heliocentric
	default:
		return f, fmt.Errorf("unknown center %q", in.Center)
	}
	switch in.Zodiac {
	case "", "tropical":
	case "sidereal":
		f.Zodiac = ephem.Sidereal
		f.Ayanamsa = in.Ayanamsa
		if f.Ayanamsa == 0 {
			f.Ayanamsa = ephem.LahiriJ2000
		}
	default:
		return f, fmt.Errorf("unknown zodiac %q", in.Zodiac)
	}
	return f, nil
}

func bad(field string, err error) error {
	return perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidConfig, "bad %s: %v", field, err), field)
}
