package openai

import (
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Config holds what is needed to reach the OpenAI API.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewClient builds an OpenAI client from explicit configuration.
func NewClient(cfg Config) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	return openai.NewClientWithConfig(clientConfig)
}
