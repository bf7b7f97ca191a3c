// Package server exposes the sqlcmd dispatcher over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/coral-mesh/sqlcmd/internal/executor"
)

// Dispatcher runs sqlcmd command lines.
type Dispatcher interface {
	Dispatch(ctx context.Context, line string) (*executor.Result, error)
	Run(ctx context.Context, args []string) (*executor.Result, error)
}

// Server is the sqlcmd HTTP endpoint.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	logger     zerolog.Logger
}

// Config contains dependencies for creating a Server.
type Config struct {
	// Addr is the host:port to listen on.
	Addr string

	Dispatcher Dispatcher

	Logger zerolog.Logger
}

// New creates a server. It does not listen until Start is called.
func New(cfg Config) *Server {
	logger := cfg.Logger.With().Str("component", "server").Logger()

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(cfg.Dispatcher, cfg.Logger),
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter builds the chi router with middleware and routes.
func NewRouter(d Dispatcher, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AccessLog(logger))
	r.Use(middleware.Recoverer)

	NewHandler(d, logger).RegisterRoutes(r)
	return r
}

// Start binds the listen address and serves in a background goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.logger.Info().Str("addr", s.Addr()).Msg("Starting sqlcmd HTTP server")

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping sqlcmd HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// URL returns the server base URL.
func (s *Server) URL() string {
	return "http://" + s.Addr()
}
