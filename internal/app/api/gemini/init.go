package gemini

import (
	"context"

	"whisper-web/internal/app/api"
	"whisper-web/internal/app/api/provider"
)

func init() {
	provider.RegisterProvider("gemini", func(ctx context.Context, settings provider.Settings) (api.Transcriber, error) {
		return NewTranscriber(ctx, Config{
			APIKey:  settings.APIKey,
			Model:   settings.Model,
			BaseURL: settings.BaseURL,
			Timeout: settings.Timeout,
		})
	})
}
