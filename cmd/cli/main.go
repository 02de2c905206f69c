package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"agroprod/internal"
	"agroprod/internal/config"
	"agroprod/internal/container"
	"agroprod/internal/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.GetCode(err) != errors.CodeInternalError {
			fmt.Fprintln(os.Stderr, "erro:", errors.UserMessage(err))
		} else {
			fmt.Fprintln(os.Stderr, "erro:", err)
		}
		os.Exit(1)
	}
}

// cli carries what every subcommand needs once PersistentPreRunE ran.
type cli struct {
	cfg       *config.Config
	logger    *zap.Logger
	container *container.Container
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "agroprod-cli",
		Short:         "Análise de produção agrícola por município e produto",
		Long:          "Lê um arquivo CSV, XLS, XLSX, HTML ou JSON com as colunas nome, prod, quant, area, rend_med e valor e calcula as agregações do painel.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			c.cfg = cfg

			level := cfg.Log.Level
			if logLevel != "" {
				level = logLevel
			}
			logger, err := internal.NewLogger(internal.ParseLogLevel(level), "console")
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			c.logger = logger

			c.container, err = container.NewWithLogger(cfg, logger)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "WARN", "Log level (ERROR, WARN, INFO, DEBUG, TRACE)")

	rootCmd.AddCommand(
		newAnalyzeCmd(c),
		newExportCmd(c),
		newProfileCmd(c),
		newChartsCmd(c),
	)
	return rootCmd
}
