package container

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"agroprod/adapters/tabular"
	"agroprod/app"
	"agroprod/internal"
	"agroprod/internal/config"
	"agroprod/internal/session"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	// Loader
	Reader *tabular.DataReader

	// Dashboard sessions, one dataset each
	Sessions *session.Store[*app.Dataset]

	// Analysis bound to Sessions, for the dashboard
	Analysis *app.AnalysisService
	// Analysis without sessions, for the JSON API and the CLI
	Stateless *app.AnalysisService
}

// New creates a container, building the logger from cfg.Log
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	logger, err := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level), cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return NewWithLogger(cfg, logger)
}

// NewWithLogger creates a container around an existing logger
func NewWithLogger(cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Reader:   tabular.NewDataReader(logger),
		Sessions: session.NewStore[*app.Dataset](),
	}
	c.Analysis = app.NewAnalysisService(c.Reader, c.Sessions, cfg.Analysis.TopN, logger)
	c.Stateless = app.NewAnalysisService(c.Reader, nil, cfg.Analysis.TopN, logger)
	return c, nil
}

// Start launches background work: the idle session sweeper. It stops with ctx.
func (c *Container) Start(ctx context.Context) {
	go c.Sessions.RunSweeper(ctx, c.Config.Session.SweepInterval, c.Config.Session.TTL, c.Logger.Named("session"))
	c.Logger.Debug("session sweeper started",
		zap.Duration("interval", c.Config.Session.SweepInterval),
		zap.Duration("ttl", c.Config.Session.TTL))
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if n := c.Sessions.Len(); n > 0 {
		c.Logger.Info("discarding in-memory sessions", zap.Int("sessions", n))
	}
	// Sync fails on terminals (ENOTTY / EINVAL); nothing to recover there
	_ = c.Logger.Sync()
	return ctx.Err()
}
