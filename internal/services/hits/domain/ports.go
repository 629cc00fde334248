package domain

import (
	"context"

	"aspectscan/internal/core/hit"
)

// WriterPort persists the hits of one scan run
type WriterPort interface {
	WriteBatch(ctx context.Context, runID string, hs []hit.Hit) error
}

// QueryPort reads persisted runs back
type QueryPort interface {
	// ListRun returns a run's hits by descending severity, at most limit rows
	ListRun(ctx context.Context, runID string, limit int) ([]Row, error)
}
