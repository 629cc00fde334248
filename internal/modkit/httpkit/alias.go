// Package httpkit is the routing vocabulary modules use instead of importing the platform http package
package httpkit

import (
	"net/http"

	phttp "aspectscan/internal/platform/net/http"
)

type (
	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is a re-export of the platform router seam
	Router = phttp.Router

	// Response lets a handler pick its own status or headers
	Response = phttp.Response
)

// JSON decodes and validates T, then envelopes fn's result
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler { return phttp.JSONHandler(fn) }

// Call envelopes the result of a handler that takes no body
func Call(fn func(*http.Request) (any, error)) Handler { return phttp.JSONHandlerNoBody(fn) }

// Param returns a path parameter captured by the router
func Param(r *http.Request, key string) string { return phttp.URLParam(r, key) }
