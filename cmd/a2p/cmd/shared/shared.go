// Package shared holds the persistent flags and bootstrap used by every subcommand.
package shared

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"audio2pdf/internal/config"
	"audio2pdf/internal/logging"
)

var (
	Verbose    bool
	ConfigPath string
)

// Bootstrap loads .env, the configuration and a logger matching it.
// --verbose forces debug logging.
func Bootstrap() (*config.AppConfig, *zap.Logger, error) {
	envPath, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	cfg, err := config.Load(ConfigPath)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if Verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(cfg.Development(), level)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if envPath != "" {
		logger.Debug("Loaded environment file", zap.String("path", envPath))
	}
	return cfg, logger, nil
}
