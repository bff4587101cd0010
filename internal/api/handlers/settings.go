package handlers

import (
	"fmt"

	"whisper-web/internal/config"
)

// Settings is the per-process state the handlers need. It is built once
// from the configuration and never read from the environment afterwards.
type Settings struct {
	APIKey         string
	APIKeyEnv      string
	ProviderName   string
	Backend        string
	ScratchDir     string
	MaxUploadBytes int64
}

// SettingsFromConfig derives handler settings from the loaded configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		APIKey:         cfg.APIKey(),
		APIKeyEnv:      cfg.APIKeyEnv(),
		ProviderName:   cfg.ProviderName(),
		Backend:        cfg.Transcription.Backend,
		ScratchDir:     cfg.Server.ScratchDir,
		MaxUploadBytes: cfg.MaxUploadBytes(),
	}
}

func (s Settings) keyNotFoundMessage() string {
	return fmt.Sprintf("Error: %s API key not found. Please set the %s environment variable.", s.ProviderName, s.APIKeyEnv)
}

func (s Settings) keyNotSetMessage() string {
	return fmt.Sprintf("%s API key not set in environment variables", s.ProviderName)
}

func (s Settings) invalidKeyMessage() string {
	return fmt.Sprintf("Invalid %s API key. Please check your environment variables.", s.ProviderName)
}

func (s Settings) serviceErrorMessage() string {
	return fmt.Sprintf("%s API service error. Please try again later.", s.ProviderName)
}
