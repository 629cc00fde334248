package domain

import (
	"context"
)

// RunnerPort runs scans on behalf of transports
type RunnerPort interface {
	Run(ctx context.Context, req Request) (Response, error)
	Composite(ctx context.Context, req CompositeRequest) (CompositeResponse, error)
}
