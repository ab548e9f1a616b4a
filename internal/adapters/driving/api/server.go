// Package api serves the orchestrator over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/sercha-learn/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// Server timeouts. Writes get a long budget because a search run
// downloads and converts papers before responding.
const (
	DefaultAddr              = ":5000"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultReadTimeout       = 30 * time.Second
	DefaultWriteTimeout      = 5 * time.Minute
	DefaultIdleTimeout       = 120 * time.Second
)

// Config holds HTTP server settings.
type Config struct {
	// Addr is the listen address (e.g., ":5000").
	Addr string

	// CORSOrigins lists allowed origins. Empty disables CORS headers.
	CORSOrigins []string
}

// Server is the HTTP API server.
type Server struct {
	router       chi.Router
	httpServer   *http.Server
	orchestrator driving.Orchestrator
	addr         string
}

// NewServer creates a server with all routes mounted.
func NewServer(orchestrator driving.Orchestrator, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(Logging)
	router.Use(chimiddleware.Recoverer)
	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	s := &Server{
		router:       router,
		orchestrator: orchestrator,
		addr:         cfg.Addr,
	}
	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}
	s.mountRoutes()
	return s
}

func (s *Server) mountRoutes() {
	h := &handlers{orchestrator: s.orchestrator}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/search", h.search)
		r.Post("/semantic_search", h.semanticSearch)
		r.Get("/health", h.health)
		r.Get("/capabilities", h.capabilities)
	})
	s.router.Handle("/metrics", promhttp.Handler())
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ln)
}

// Serve serves requests on ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	logger.Info("Starting HTTP server on %s", ln.Addr())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
