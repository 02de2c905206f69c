package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"agroprod/adapters/api"
	"agroprod/internal/config"
	"agroprod/internal/container"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(c.Stateless, api.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
		CORSOrigins:    cfg.API.Origins(),
	}, c.Logger)

	c.Logger.Info("starting api", zap.String("port", cfg.API.Port), zap.Strings("cors_origins", cfg.API.Origins()))
	return server.Start(ctx, ":"+cfg.API.Port)
}
