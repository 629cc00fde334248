package http

import "net/http"

// Handler is the handler shape every module mounts
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the routing surface modules see; chi sits behind it
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Route(pattern string, fn func(Router))

	Mux() http.Handler
}
