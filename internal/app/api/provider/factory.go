package provider

import (
	"context"
	"fmt"
	"io"

	"whisper-web/internal/app/api"
	apperrors "whisper-web/internal/app/errors"
	"whisper-web/internal/config"
)

// NewTranscriber builds the transcriber registered under providerType.
func NewTranscriber(ctx context.Context, providerType string, settings Settings) (api.Transcriber, error) {
	creator, err := GetProviderCreator(providerType)
	if err != nil {
		return nil, fmt.Errorf("%s provider not registered: %w", providerType, err)
	}

	transcriber, err := creator(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("create %s provider: %w", providerType, err)
	}
	return transcriber, nil
}

// NewTranscriberFromConfig builds the configured backend. Without a
// credential no client is created; the returned transcriber only reports
// the missing key, and the handlers never call it in that state.
func NewTranscriberFromConfig(ctx context.Context, cfg *config.Config) (api.Transcriber, error) {
	if cfg.APIKey() == "" {
		return api.TranscriberFunc(func(context.Context, io.Reader, string, api.ResponseFormat) (string, error) {
			return "", apperrors.ErrMissingAPIKey
		}), nil
	}

	return NewTranscriber(ctx, cfg.Transcription.Backend, Settings{
		APIKey:  cfg.APIKey(),
		Model:   cfg.Model(),
		BaseURL: cfg.Transcription.BaseURL,
		Timeout: cfg.Transcription.Timeout,
	})
}
