// Package net carries request scoped ids on a context
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type runKey struct{}

// WithRequest stores a request id (under chi's key, so chi's helpers see it)
// and a scan run id. Empty values are skipped.
func WithRequest(ctx context.Context, reqID, runID string) context.Context {
	if reqID != "" {
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if runID != "" {
		ctx = context.WithValue(ctx, runKey{}, runID)
	}
	return ctx
}

// RequestID returns the request id or ""
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// RunID returns the scan run id or ""
func RunID(ctx context.Context) string {
	id, _ := ctx.Value(runKey{}).(string)
	return id
}
