package whisper

import (
	"context"

	"whisper-web/internal/app/api"
	openaiclient "whisper-web/internal/app/api/openai"
	"whisper-web/internal/app/api/provider"
)

func init() {
	// Register openai provider with the factory
	provider.RegisterProvider("openai", createOpenAIProvider)
}

// createOpenAIProvider creates an OpenAI Whisper transcriber from settings
func createOpenAIProvider(_ context.Context, settings provider.Settings) (api.Transcriber, error) {
	client := openaiclient.NewClient(openaiclient.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Timeout: settings.Timeout,
	})
	return NewRemoteTranscriber(client, settings.Model), nil
}
