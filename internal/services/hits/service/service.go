// Package service provides the hits service implementation
package service

import (
	"context"

	"aspectscan/internal/core/hit"
	perr "aspectscan/internal/platform/errors"
	dom "aspectscan/internal/services/hits/domain"
	"aspectscan/internal/services/hits/repo"
)

// Config for the hits service
type Config struct {
	// HardLimit caps ListRun; defaults to 100 if <= 0
	HardLimit int
}

// Service implements domain.WriterPort and domain.QueryPort
type Service struct {
	Storage repo.Storage
	Cfg     Config
}

var (
	_ dom.WriterPort = (*Service)(nil)
	_ dom.QueryPort  = (*Service)(nil)
)

// New constructs a new hits service with a required storage
func New(storage repo.Storage, cfg Config) *Service {
	if storage == nil {
		panic("hits.Service requires a non nil Storage")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{Storage: storage, Cfg: cfg}
}

// WriteBatch implements domain.WriterPort
func (s *Service) WriteBatch(ctx context.Context, runID string, hs []hit.Hit) error {
	if err := s.Storage.WriteBatch(ctx, runID, hs); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "write hits for run %s", runID)
	}
	return nil
}

// ListRun implements domain.QueryPort
func (s *Service) ListRun(ctx context.Context, runID string, limit int) ([]dom.Row, error) {
	if runID == "" {
		return nil, perr.WithField(perr.InvalidArgf("run id is required"), "run_id")
	}
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	rows, err := s.Storage.ListRun(ctx, runID, limit)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeDB, "list hits for run %s", runID)
	}
	return rows, nil
}
