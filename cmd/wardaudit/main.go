package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"wardaudit/internal/platform/config"
	"wardaudit/internal/platform/logger"
)

const programName = "wardaudit"

var globalFlags = struct {
	debug bool
}{}

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

// commonRun loads configuration and sets up the process-wide logger.
func commonRun() (config.Config, *slog.Logger, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, nil, err
	}
	level := cfg.LogLevel
	if globalFlags.debug {
		level = "debug"
	}
	log := logger.New(level)
	slog.SetDefault(log)

	// Toss the undo func, the process keeps the setting until exit.
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		return config.Config{}, nil, fmt.Errorf("set GOMAXPROCS: %w", err)
	}
	log.Debug("configuration loaded",
		"environment", cfg.Environment,
		"database", cfg.Database.URL != "",
		"redis", cfg.Redis.URL != "",
		"kafka", len(cfg.Kafka.Brokers) > 0,
	)
	return cfg, log, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Ward compliance audit engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(
		serveCommand(),
		refreshCommand(),
		migrateCommand(),
		auditConsumeCommand(),
		tokenCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error(), "component", programName)
		os.Exit(1)
	}
}
