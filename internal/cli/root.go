// Package cli implements the marketscan command-line interface.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jdemuth17/market-analysis/internal/config"
	"github.com/jdemuth17/market-analysis/internal/logging"
	"github.com/jdemuth17/market-analysis/internal/store"
)

// App holds the application dependencies shared by all commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	configDir string
	dataStore store.DataStore
}

// Store lazily opens the SQLite store. Commands that never persist
// anything avoid touching the database entirely.
func (a *App) Store() (store.DataStore, error) {
	if a.dataStore != nil {
		return a.dataStore, nil
	}
	s, err := store.NewSQLiteStore(a.Config.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	a.dataStore = s
	return s, nil
}

// Close releases application resources.
func (a *App) Close() {
	if a.dataStore != nil {
		a.dataStore.Close()
	}
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	app := &App{}

	rootCmd := &cobra.Command{
		Use:   "marketscan",
		Short: "Chart pattern and indicator scanner for daily OHLCV data",
		Long: `marketscan detects classical chart patterns (double tops, head and
shoulders, flags, triangles, wedges, pennants, cup and handle) and
computes technical indicators over daily equity price data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.EnsureConfigDir(app.configDir); err != nil {
				return err
			}
			if err := config.WriteDefaultConfig(app.configDir); err != nil {
				return err
			}
			cfg, err := config.Load(app.configDir)
			if err != nil {
				return err
			}
			app.Config = cfg

			logLevel, _ := cmd.Flags().GetString("log-level")
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			app.Logger = logging.NewLoggerWithConfig(logging.LogConfig{
				Level:      cfg.Logging.Level,
				Console:    cfg.Logging.Console,
				File:       cfg.Logging.File,
				FilePath:   cfg.Logging.FilePath,
				MaxSize:    cfg.Logging.MaxSize,
				MaxBackups: cfg.Logging.MaxBackups,
				MaxAge:     cfg.Logging.MaxAge,
			})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configDir, "config-dir", "", "configuration directory (default ~/.config/marketscan)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(newScanCmd(app))
	rootCmd.AddCommand(newIndicatorsCmd(app))
	rootCmd.AddCommand(newPatternsCmd(app))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
