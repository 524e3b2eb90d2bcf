package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"decisionhq/meridian/pkg/audit/changelog"
	"decisionhq/meridian/pkg/audit/recorder"
	"decisionhq/meridian/pkg/config"
	"decisionhq/meridian/pkg/facts/kyc"
	"decisionhq/meridian/pkg/rules/cache"
	"decisionhq/meridian/pkg/rules/engine"
	"decisionhq/meridian/pkg/rules/source"
	"decisionhq/meridian/pkg/server/handlers"
	"decisionhq/meridian/pkg/server/middleware"
	"decisionhq/meridian/pkg/telemetry/health"
	"decisionhq/meridian/pkg/telemetry/metrics"
)

// Components bundles the subsystems the server serves. Recorder, Changelog
// and Metrics may be nil when their feature is disabled.
type Components struct {
	Engine    *engine.Engine
	Cache     *cache.RuleCache
	Source    source.WritableSource
	Recorder  *recorder.Recorder
	Changelog *changelog.Store
	Adapter   *kyc.Adapter
	Metrics   *metrics.Collector
	Health    *health.Checker

	// Build identity for /version.
	Version   string
	Commit    string
	BuildTime string
}

// Server is the decision service HTTP server.
type Server struct {
	config       *config.Config
	components   Components
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates the HTTP server around the given components.
func NewServer(cfg *config.Config, components Components, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:       cfg,
		components:   components,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown: context
// cancellation, SIGINT/SIGTERM, or a listener error.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting decision service",
			"address", s.config.Server.ListenAddress,
			"rules_directory", s.config.Rules.Directory,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server, bounded by the configured
// shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown",
			"timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("decision service stopped")
	})

	return shutdownErr
}

// Stop requests shutdown from another goroutine.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler builds the route table and middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	decisionHandler := handlers.NewDecisionHandler(
		s.components.Engine, s.components.Recorder, s.components.Metrics, s.logger)
	kycHandler := handlers.NewKYCHandler(decisionHandler, s.components.Adapter)
	rulesHandler := handlers.NewRulesHandler(
		s.components.Source, s.components.Cache, s.components.Changelog,
		s.components.Engine, s.logger)

	mux.HandleFunc("POST /api/v1/decisions/evaluate", decisionHandler.Evaluate)
	mux.HandleFunc("POST /api/v1/decisions/kyc/eligibility", kycHandler.Eligibility)

	mux.HandleFunc("GET /api/v1/rules", rulesHandler.List)
	mux.HandleFunc("POST /api/v1/rules/test", rulesHandler.Test)
	mux.HandleFunc("POST /api/v1/rules/invalidate", rulesHandler.Invalidate)
	mux.HandleFunc("GET /api/v1/rules/changes/{path...}", rulesHandler.History)
	mux.HandleFunc("GET /api/v1/rules/{path...}", rulesHandler.Get)
	mux.HandleFunc("PUT /api/v1/rules/{path...}", rulesHandler.Save)
	mux.HandleFunc("DELETE /api/v1/rules/{path...}", rulesHandler.Delete)

	if s.components.Health != nil {
		mux.HandleFunc("/health", s.components.Health.LivenessHandler())
		mux.HandleFunc("/ready", s.components.Health.ReadinessHandler())
	}
	mux.HandleFunc("/version", health.VersionHandler(
		s.components.Version, s.components.Commit, s.components.BuildTime))

	if s.components.Metrics != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.components.Metrics.Handler())
	}

	// Middleware chain, innermost first.
	var handler http.Handler = mux
	handler = middleware.TimeoutMiddleware(s.config.Server.RequestTimeout)(handler)
	handler = middleware.CORSMiddleware(
		middleware.DefaultCORSConfig(s.config.Server.CORSAllowedOrigins))(handler)
	handler = middleware.CorrelationIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}
