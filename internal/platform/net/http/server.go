package http

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"aspectscan/internal/platform/config"
	"aspectscan/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the listening http.Server
type Server struct {
	mux   *chi.Mux
	srv   *stdhttp.Server
	grace time.Duration
}

// NewServer reads API_PORT (default :4000), API_READ_HEADER_TIMEOUT and
// API_SHUTDOWN_GRACE. opts can mount middleware on the bare mux.
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	api := cfg.Prefix("API_")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		mux:   m,
		grace: api.MayDuration("SHUTDOWN_GRACE", 15*time.Second),
		srv: &stdhttp.Server{
			Addr:              api.MayString("PORT", ":4000"),
			Handler:           m,
			ReadHeaderTimeout: api.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		},
	}
}

// Router returns the mux behind the Router facade
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr returns the configured listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Run serves until Shutdown is called or ctx ends; on ctx end it drains
// in flight requests for up to the shutdown grace.
func (s *Server) Run(ctx context.Context) error {
	log := logger.Named("http")
	log.Info().Str("addr", s.srv.Addr).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	<-errc
	log.Info().Msg("http drained")
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
