package main

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agroprod/internal/config"
	"agroprod/internal/container"
	"agroprod/ui"
)

//go:embed ui/templates/*.html ui/templates/fragments/*.html ui/static/*
var embeddedFiles embed.FS

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	c, err := container.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.Shutdown(ctx)
	}()

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	c.Start(ctx)

	server, err := ui.NewServer(c.Analysis, embeddedFiles, cfg.Server.MaxUploadBytes(), c.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dashboard: %w", err)
	}

	c.Logger.Info("starting dashboard",
		zap.String("port", cfg.Server.Port),
		zap.String("gin_mode", cfg.Server.GinMode),
		zap.Int64("max_upload_mb", cfg.Server.MaxUploadMB),
		zap.Duration("session_ttl", cfg.Session.TTL))
	return server.Start(ctx, ":"+cfg.Server.Port)
}
