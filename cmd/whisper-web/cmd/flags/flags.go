// Package flags holds the persistent root flags shared by every subcommand.
package flags

import (
	"go.uber.org/zap"
	"whisper-web/internal/config"
	"whisper-web/internal/logging"
)

var (
	ConfigFile string
	EnvFile    string
	Verbose    bool
)

// LoadConfig loads configuration using the persistent flags.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: ConfigFile,
		EnvFile:    EnvFile,
	})
	if err != nil {
		return nil, err
	}
	if Verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// NewLogger builds the process logger for cfg.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.Logging.Development, cfg.Logging.Level)
}
