package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/k02miu/inner-rag/internal/core/domain"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
)

// QueryFactory returns a query service that reports through notifier
type QueryFactory func(notifier driven.Notifier) driving.QueryService

// EventDispatcher hands a chat event to its handler. Implementations may
// handle it before returning or queue it; an error means it was not accepted.
type EventDispatcher interface {
	Dispatch(event *domain.InboundEvent) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string

	signingSecret string

	// Services
	dispatcher   EventDispatcher
	adminService driving.IndexAdminService
	authService  driving.AuthService
	adminQuery   QueryFactory

	// Infrastructure
	metrics        driven.PipelineMetrics
	metricsHandler http.Handler
	logger         *slog.Logger
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string

	// SlackSigningSecret verifies inbound Slack requests. Empty disables
	// verification.
	SlackSigningSecret string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// Deps holds the services and infrastructure the server routes to
type Deps struct {
	Events     EventDispatcher
	Admin      driving.IndexAdminService
	Auth       driving.AuthService
	AdminQuery QueryFactory

	Metrics        driven.PipelineMetrics
	MetricsHandler http.Handler // nil disables GET /metrics
	Logger         *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}

	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		signingSecret:  cfg.SlackSigningSecret,
		dispatcher:     deps.Events,
		adminService:   deps.Admin,
		authService:    deps.Auth,
		adminQuery:     deps.AdminQuery,
		metrics:        metrics,
		metricsHandler: deps.MetricsHandler,
		logger:         logger,
	}

	s.setupRoutes()

	// Outermost first: request id, recovery, logging, metrics.
	s.handler = NewRequestIDMiddleware().Handler(
		NewRecoveryMiddleware(logger).Handler(
			NewLoggingMiddleware(logger).Handler(
				NewMetricsMiddleware(metrics).Handler(s.router))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	if s.metricsHandler != nil {
		s.router.Handle("GET /metrics", s.metricsHandler)
	}

	// Slack Events API (request signature auth)
	s.router.HandleFunc("POST /api/slack/events", s.handleSlackEvents)

	if s.authService == nil {
		return
	}
	authMiddleware := NewAuthMiddleware(s.authService)

	// Admin endpoints (admin-only)
	s.router.Handle("POST /api/v1/admin/index",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleEnsureIndex))))
	s.router.Handle("DELETE /api/v1/admin/documents/{id}",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleDeleteDocument))))
	s.router.Handle("POST /api/v1/admin/query",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleAdminQuery))))
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.Stop(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops accepting requests. Queued events are drained by the dispatcher's
// owner, not here.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
