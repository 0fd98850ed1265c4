// Package cli implements the slicer cobra commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/slicer/internal/config"
	"github.com/example/slicer/internal/logging"
	"github.com/example/slicer/internal/wire"
)

var (
	loadedConfig *config.Config
	logger       = zap.NewNop()
)

// Setup registers the global flags on root and loads configuration and the
// logger before any subcommand runs.
func Setup(root *cobra.Command) {
	root.PersistentFlags().String("config", "", "Config file (default: ./.slicer/config.yaml, then ~/.config/slicer/config.yaml)")
	root.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")
	root.SilenceUsage = true

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, used, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Log.Level = level
		}

		l, err := logging.New(logging.Config{Level: cfg.Log.Level, File: cfg.Log.File, Production: cfg.Log.Production})
		if err != nil {
			return err
		}
		if used != "" {
			l.Debug("config loaded", zap.String("file", used))
		}

		loadedConfig = cfg
		logger = l
		wire.Configure(cfg, l)
		return nil
	}

	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if err := wire.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
		_ = logger.Sync()
	}
}
