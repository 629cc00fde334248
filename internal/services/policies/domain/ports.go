package domain

import (
	"context"

	"aspectscan/internal/core/orb"
)

// ReaderPort resolves stored policies for scans
type ReaderPort interface {
	// Get returns the policy with the given id, or a not found error
	Get(ctx context.Context, id string) (orb.Policy, error)
	List(ctx context.Context) ([]Summary, error)
}
