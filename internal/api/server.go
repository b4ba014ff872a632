// Package api provides the HTTP REST API for the vplan engine.
//
// It exposes account credential management, plan CRUD, and plan operations
// (enable, disable, refresh, schedule preview, device group test) to the
// command-line client and any other HTTP consumer.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vplan-io/vplan-core/internal/infrastructure/config"
	"github.com/vplan-io/vplan-core/internal/infrastructure/logging"
	"github.com/vplan-io/vplan-core/internal/refresh"
	"github.com/vplan-io/vplan-core/internal/schedule"
	"github.com/vplan-io/vplan-core/internal/store"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// PassRunner executes reconciliation passes, dry runs and group tests.
// Implemented by refresh.Runner; narrowed here so handlers can be tested
// with a mock.
type PassRunner interface {
	RunPass(ctx context.Context, planName, trigger string) (*refresh.PassReport, error)
	DryRun(ctx context.Context, planName string, date schedule.Date) (*refresh.Preview, error)
	Toggle(ctx context.Context, planName, groupName string, toggles int) error
}

// PlanScheduler maintains the daily cron entries for enabled plans.
// Implemented by refresh.Scheduler.
type PlanScheduler interface {
	SchedulePlan(planName, document string) error
	UnschedulePlan(planName string)
}

// HealthChecker reports backing store liveness. Implemented by database.DB.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	Logger    *logging.Logger
	Repo      store.Repository
	Runner    PassRunner
	Scheduler PlanScheduler
	Health    HealthChecker
	Version   string
}

// Server is the HTTP API server for the vplan engine.
//
// It manages the HTTP listener, routes, and middleware. The server is
// created with New() and started with Start().
type Server struct {
	cfg       config.APIConfig
	logger    *logging.Logger
	repo      store.Repository
	runner    PassRunner
	scheduler PlanScheduler
	health    HealthChecker
	version   string
	server    *http.Server
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, repository, runner)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if deps.Runner == nil {
		return nil, fmt.Errorf("pass runner is required")
	}
	if deps.Scheduler == nil {
		return nil, fmt.Errorf("plan scheduler is required")
	}

	return &Server{
		cfg:       deps.Config,
		logger:    deps.Logger,
		repo:      deps.Repo,
		runner:    deps.Runner,
		scheduler: deps.Scheduler,
		health:    deps.Health,
		version:   deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It builds the router and launches the HTTP listener in a background
// goroutine. The server can be stopped with Close().
func (s *Server) Start(_ context.Context) error {
	router := s.buildRouter()

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           router,
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete, then
// forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}
