package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	// Filled in by rootCmd's PersistentPreRunE before any subcommand runs.
	appConfig Config
	appLogger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "trivia",
	Short:         "Trivia questions API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg
		appLogger = setupLogger(cfg)
		return nil
	},
}

// setupLogger installs the default slog logger; --verbose wins over the configured level.
func setupLogger(cfg Config) *slog.Logger {
	level, _ := parseLogLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
