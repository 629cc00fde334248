// Package service runs scans for the transports: policy lookup, engine run,
// pagination, persistence and metrics
package service

import (
	"context"
	"errors"
	"time"

	"aspectscan/internal/core/ephem"
	"aspectscan/internal/core/orb"
	"aspectscan/internal/core/rank"
	"aspectscan/internal/core/refine"
	"aspectscan/internal/core/scan"
	perr "aspectscan/internal/platform/errors"
	"aspectscan/internal/platform/logger"
	pnet "aspectscan/internal/platform/net"
	hitsdom "aspectscan/internal/services/hits/domain"
	policydom "aspectscan/internal/services/policies/domain"
	dom "aspectscan/internal/services/scan/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config for the scan service
type Config struct {
	// Tolerance applies to requests; zero selects refine.DefaultTolerance
	Tolerance refine.Tolerance
	// DefaultStep is used when a request names no step
	DefaultStep time.Duration
	// MaxWindow bounds End-Start; zero disables the bound
	MaxWindow time.Duration
	// Persist writes every hit of a run through the hits writer
	Persist bool
}

// Service implements domain.RunnerPort
type Service struct {
	engine   *scan.Engine
	policies policydom.ReaderPort
	hits     hitsdom.WriterPort
	metrics  *Metrics
	cfg      Config
	log      zerolog.Logger

	newID func() string
}

var _ dom.RunnerPort = (*Service)(nil)

// Option customizes a Service
type Option func(*Service)

// WithPolicies enables stored policy lookup by id
func WithPolicies(p policydom.ReaderPort) Option { return func(s *Service) { s.policies = p } }

// WithHits sets the writer used when persistence is on
func WithHits(w hitsdom.WriterPort) Option { return func(s *Service) { s.hits = w } }

// WithMetrics sets the collectors; the default is unregistered collectors
func WithMetrics(m *Metrics) Option { return func(s *Service) { s.metrics = m } }

// WithLogger sets the service logger
func WithLogger(l logger.Logger) Option { return func(s *Service) { s.log = l } }

// New constructs the service around an engine
func New(engine *scan.Engine, cfg Config, opts ...Option) *Service {
	if engine == nil {
		panic("scan.Service requires a non nil Engine")
	}
	if cfg.DefaultStep <= 0 {
		cfg.DefaultStep = 6 * time.Hour
	}
	s := &Service{engine: engine, cfg: cfg, log: zerolog.Nop(), newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}
	return s
}

// Run implements domain.RunnerPort
func (s *Service) Run(ctx context.Context, req dom.Request) (dom.Response, error) {
	runID := s.newID()
	ctx = pnet.WithRequest(ctx, "", runID)
	res, err := s.run(ctx, req)
	if err != nil {
		return dom.Response{}, err
	}

	persisted := s.persist(ctx, res)
	return dom.Response{
		RunID:       runID,
		Hits:        rank.Page(res.Hits, req.Limit, req.Offset),
		Total:       res.Total,
		Limit:       req.Limit,
		Offset:      req.Offset,
		Diagnostics: res.Diagnostics,
		Stats:       res.Stats,
		Persisted:   persisted,
	}, nil
}

// Composite implements domain.RunnerPort. Pagination fields are ignored:
// bins always cover every hit of the window.
func (s *Service) Composite(ctx context.Context, req dom.CompositeRequest) (dom.CompositeResponse, error) {
	period, err := rank.ParsePeriod(req.Period)
	if err != nil {
		return dom.CompositeResponse{}, bad("period", err)
	}
	agg, err := rank.ParseAgg(req.Agg)
	if err != nil {
		return dom.CompositeResponse{}, bad("agg", err)
	}

	runID := s.newID()
	res, err := s.run(pnet.WithRequest(ctx, "", runID), req.Request)
	if err != nil {
		return dom.CompositeResponse{}, err
	}
	return dom.CompositeResponse{
		RunID:       runID,
		Period:      period.String(),
		Agg:         agg.String(),
		Bins:        rank.Aggregate(res.Hits, period, agg),
		Total:       res.Total,
		Diagnostics: res.Diagnostics,
	}, nil
}

// run executes the full scan; the returned result holds every hit, ranked
func (s *Service) run(ctx context.Context, req dom.Request) (scan.Result, error) {
	log := s.logFor(ctx)

	cfg, err := s.config(ctx, req)
	if err != nil {
		s.metrics.Scans.WithLabelValues(ResultInvalid).Inc()
		return scan.Result{}, err
	}
	cfg.Limit, cfg.Offset = 0, 0

	start := time.Now()
	res, err := s.engine.Run(ctx, cfg)
	if err != nil {
		mapped := mapEngineError(err)
		result := ResultFailed
		if perr.IsCode(mapped, perr.ErrorCodeInvalidConfig) {
			result = ResultInvalid
		}
		s.metrics.Scans.WithLabelValues(result).Inc()
		log.Warn().Err(err).Msg("scan failed")
		return scan.Result{}, mapped
	}
	s.metrics.observe(res, time.Since(start).Seconds())

	log.Info().
		Int("hits", res.Total).
		Int("diagnostics", len(res.Diagnostics)).
		Int("samples", res.Stats.Samples).
		Dur("took", time.Since(start)).
		Msg("scan done")
	return res, nil
}

// config parses the request, applies service defaults and merges the stored policy
func (s *Service) config(ctx context.Context, req dom.Request) (scan.Config, error) {
	cfg, err := ToConfig(req, s.cfg.DefaultStep)
	if err != nil {
		return scan.Config{}, err
	}
	if s.cfg.MaxWindow > 0 && cfg.End.Sub(cfg.Start) > s.cfg.MaxWindow {
		return scan.Config{}, perr.WithField(
			perr.InvalidConfigf("window %s exceeds the %s limit", cfg.End.Sub(cfg.Start), s.cfg.MaxWindow), "end")
	}
	cfg.Tolerance = s.cfg.Tolerance

	if req.PolicyID != "" {
		if s.policies == nil {
			return scan.Config{}, perr.WithField(perr.InvalidConfigf("stored policies are not available"), "policy_id")
		}
		stored, err := s.policies.Get(ctx, req.PolicyID)
		if err != nil {
			return scan.Config{}, err
		}
		cfg.Policy = orb.Merge(stored, cfg.Policy)
	}
	return cfg, nil
}

// persist writes the full hit list; failures degrade to a log line
func (s *Service) persist(ctx context.Context, res scan.Result) bool {
	if !s.cfg.Persist || s.hits == nil || len(res.Hits) == 0 {
		return false
	}
	if err := s.hits.WriteBatch(ctx, pnet.RunID(ctx), res.Hits); err != nil {
		log := s.logFor(ctx)
		log.Error().Err(err).Msg("persist hits failed")
		return false
	}
	return true
}

// logFor tags the service logger with the ids carried on ctx
func (s *Service) logFor(ctx context.Context) zerolog.Logger { return logger.With(s.log, ctx) }

func mapEngineError(err error) error {
	switch {
	case errors.Is(err, scan.ErrInvalidConfig):
		return perr.Wrap(err, perr.ErrorCodeInvalidConfig, "scan rejected")
	case errors.Is(err, orb.ErrUnresolvedPolicy):
		return perr.Wrap(err, perr.ErrorCodeUnresolvedPolicy, "orb policy rejected")
	case errors.Is(err, ephem.ErrOracleUnavailable):
		return perr.Wrap(err, perr.ErrorCodeOracleUnavailable, "scan aborted")
	case errors.Is(err, refine.ErrNonConvergent):
		return perr.Wrap(err, perr.ErrorCodeNonConvergent, "scan aborted")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "scan cancelled")
	}
	return perr.Wrap(err, perr.ErrorCodeUnknown, "scan failed")
}
