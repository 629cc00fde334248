package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"aspectscan/internal/core/catalog"
	scandom "aspectscan/internal/services/scan/domain"
)

// requestFlags are the scan options shared by scan and composite
type requestFlags struct {
	objects   []string
	midpoints []string
	pairs     []string
	aspects   []string
	harmonics []int

	start, end, asOf string
	step             string
	order            string
	limit, offset    int

	orbs, aspectOrbs, adaptive map[string]string
	fixed                      map[string]string

	center, zodiac string
	ayanamsa       float64
	windows        bool
}

func (f *requestFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringSliceVar(&f.objects, "objects", nil, "bodies to scan, e.g. sun,moon,mars")
	fs.StringSliceVar(&f.midpoints, "midpoints", nil, "midpoints to add, e.g. sun/moon")
	fs.StringSliceVar(&f.pairs, "pairs", nil, "explicit pairs a:b; replaces the all-pairs product")
	fs.StringSliceVar(&f.aspects, "aspects", nil, "named aspects; default is the major set unless --harmonics is given")
	fs.IntSliceVar(&f.harmonics, "harmonics", nil, "harmonic numbers >= 2")

	fs.StringVar(&f.start, "start", "", "window start, RFC3339 or YYYY-MM-DD (UTC)")
	fs.StringVar(&f.end, "end", "", "window end, RFC3339 or YYYY-MM-DD (UTC)")
	fs.StringVar(&f.asOf, "as-of", "", "instant for the applying flag; default is the window start")
	fs.StringVar(&f.step, "step", "", "sampling step, e.g. 6h")
	fs.StringVar(&f.order, "order", "time", "time, severity or orb")
	fs.IntVar(&f.limit, "limit", 0, "page size; 0 lists everything")
	fs.IntVar(&f.offset, "offset", 0, "page offset")

	fs.StringToStringVar(&f.orbs, "orb", nil, "per body orbs, e.g. moon=6,sun=8")
	fs.StringToStringVar(&f.aspectOrbs, "aspect-orb", nil, "per aspect orbs, e.g. square=5,h7=1")
	fs.StringToStringVar(&f.adaptive, "adaptive", nil, "adaptive rules, e.g. luminaries=1.25")
	fs.StringToStringVar(&f.fixed, "fixed", nil, "fixed longitudes, e.g. ascendant=123.4")

	fs.StringVar(&f.center, "center", "", "geocentric or heliocentric")
	fs.StringVar(&f.zodiac, "zodiac", "", "tropical or sidereal")
	fs.Float64Var(&f.ayanamsa, "ayanamsa", 0, "sidereal offset at J2000 in degrees")
	fs.BoolVar(&f.windows, "windows", false, "report when each pair entered and left orb")

	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (f *requestFlags) request() (scandom.Request, error) {
	req := scandom.Request{
		Objects:    f.objects,
		Midpoints:  f.midpoints,
		Aspects:    f.aspects,
		Harmonics:  f.harmonics,
		Step:       f.step,
		Order:      f.order,
		Limit:      f.limit,
		Offset:     f.offset,
		OrbWindows: f.windows,
		Frame:      scandom.FrameInput{Center: f.center, Zodiac: f.zodiac, Ayanamsa: f.ayanamsa},
	}

	if len(req.Aspects) == 0 && len(req.Harmonics) == 0 {
		for _, a := range catalog.MajorAspects() {
			req.Aspects = append(req.Aspects, a.String())
		}
	}

	var err error
	if req.Start, err = parseWhen("start", f.start); err != nil {
		return req, err
	}
	if req.End, err = parseWhen("end", f.end); err != nil {
		return req, err
	}
	if f.asOf != "" {
		if req.AsOf, err = parseWhen("as-of", f.asOf); err != nil {
			return req, err
		}
	}

	for _, p := range f.pairs {
		a, b, ok := strings.Cut(p, ":")
		if !ok || a == "" || b == "" {
			return req, fmt.Errorf("--pairs %q: want a:b", p)
		}
		req.Pairs = append(req.Pairs, scandom.PairInput{A: a, B: b})
	}

	if req.Policy.PerObject, err = degrees("orb", f.orbs); err != nil {
		return req, err
	}
	if req.Policy.PerAspect, err = degrees("aspect-orb", f.aspectOrbs); err != nil {
		return req, err
	}
	if req.Policy.Adaptive, err = degrees("adaptive", f.adaptive); err != nil {
		return req, err
	}
	if req.Fixed, err = degrees("fixed", f.fixed); err != nil {
		return req, err
	}
	return req, nil
}

// parseWhen accepts RFC3339, a bare date or a date with hour and minute, all UTC
func parseWhen(flag, v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("--%s %q: want RFC3339 or YYYY-MM-DD", flag, v)
}

func degrees(flag string, in map[string]string) (map[string]float64, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("--%s %s=%s: not a number", flag, k, v)
		}
		out[strings.TrimSpace(k)] = f
	}
	return out, nil
}

func expand(names []string, harmonics []int) ([]catalog.AspectAngle, error) {
	aspects := make([]catalog.Aspect, 0, len(names))
	for _, n := range names {
		a, err := catalog.ParseAspect(n)
		if err != nil {
			return nil, err
		}
		aspects = append(aspects, a)
	}
	return catalog.Expand(aspects, harmonics)
}
