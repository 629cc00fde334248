package middleware

import (
	"net/http"
	"runtime/debug"

	perr "aspectscan/internal/platform/errors"
	"aspectscan/internal/platform/logger"
	phttp "aspectscan/internal/platform/net/http"
)

// RecoverJSON turns a panic into a 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			phttp.Handle(func(*http.Request) phttp.Response {
				return phttp.Error(perr.PanicErrf("internal error"))
			})(w, r)
		}()
		next.ServeHTTP(w, r)
	})
}
