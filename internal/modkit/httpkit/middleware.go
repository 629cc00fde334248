package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"aspectscan/internal/platform/net/middleware"
)

// CommonStack is the middleware every /api/v1 route runs behind.
// origins restricts CORS; none allows any origin.
func CommonStack(origins ...string) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP(),
		middleware.AccessLog(time.Second),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(origins...),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(30 * time.Second),
	}
}

// Throttle bounds how many requests a module serves at once; the rest wait up to wait in a queue of backlog
func Throttle(limit, backlog int, wait time.Duration) func(http.Handler) http.Handler {
	return middleware.Throttle(limit, backlog, wait)
}
