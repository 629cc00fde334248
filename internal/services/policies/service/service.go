// Package service turns stored policy records into orb policies
package service

import (
	"context"
	"strconv"
	"strings"

	"aspectscan/internal/core/catalog"
	"aspectscan/internal/core/orb"
	perr "aspectscan/internal/platform/errors"
	"aspectscan/internal/services/policies/domain"
	"aspectscan/internal/services/policies/repo"
)

// Service implements domain.ReaderPort
type Service struct {
	repo repo.Repo
}

var _ domain.ReaderPort = (*Service)(nil)

// New constructs the service over any repo
func New(r repo.Repo) *Service {
	if r == nil {
		panic("policies.Service requires a non nil Repo")
	}
	return &Service{repo: r}
}

// Get loads and converts one stored policy
func (s *Service) Get(ctx context.Context, id string) (orb.Policy, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return orb.Policy{}, err
	}
	return ToPolicy(rec)
}

// List returns policy summaries ordered by id
func (s *Service) List(ctx context.Context) ([]domain.Summary, error) {
	recs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Summary, 0, len(recs))
	for _, r := range recs {
		out = append(out, domain.Summary{ID: r.ID, Name: r.Name, UpdatedAt: r.UpdatedAt})
	}
	return out, nil
}

// ToPolicy parses record keys and validates the result. Unknown keys are
// config errors, not silently ignored.
func ToPolicy(rec domain.Record) (orb.Policy, error) {
	var p orb.Policy
	if len(rec.PerObject) > 0 {
		p.PerObject = make(map[catalog.Body]float64, len(rec.PerObject))
		for k, v := range rec.PerObject {
			b, err := catalog.ParseBody(k)
			if err != nil {
				return orb.Policy{}, invalid(rec.ID, "per_object", err)
			}
			p.PerObject[b] = v
		}
	}
	if len(rec.PerAspect) > 0 {
		p.PerAspect = make(map[string]float64, len(rec.PerAspect))
		for k, v := range rec.PerAspect {
			key, err := AspectKey(k)
			if err != nil {
				return orb.Policy{}, invalid(rec.ID, "per_aspect", err)
			}
			p.PerAspect[key] = v
		}
	}
	if len(rec.Adaptive) > 0 {
		p.Adaptive = make(map[orb.Rule]float64, len(rec.Adaptive))
		for k, v := range rec.Adaptive {
			r, err := orb.ParseRule(k)
			if err != nil {
				return orb.Policy{}, invalid(rec.ID, "adaptive", err)
			}
			p.Adaptive[r] = v
		}
	}
	if err := p.Validate(); err != nil {
		return orb.Policy{}, perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidConfig, "orb policy %q: %v", rec.ID, err), "policy")
	}
	return p, nil
}

// AspectKey normalizes a per-aspect key: a named aspect, "h<n>" with n >= 2,
// or the shared "harmonic" family
func AspectKey(s string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if k == catalog.FamilyHarmonic {
		return k, nil
	}
	if a, err := catalog.ParseAspect(k); err == nil {
		return a.String(), nil
	}
	if n, err := strconv.Atoi(strings.TrimPrefix(k, "h")); err == nil && strings.HasPrefix(k, "h") && n >= 2 {
		return "h" + strconv.Itoa(n), nil
	}
	return "", perr.InvalidConfigf("unknown aspect key %q", s)
}

func invalid(id, field string, err error) error {
	return perr.WithField(perr.Wrapf(err, perr.ErrorCodeInvalidConfig, "orb policy %q: bad %s key: %v", id, field, err), field)
}
