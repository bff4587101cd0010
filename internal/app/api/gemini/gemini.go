package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
	"whisper-web/internal/app/api"
	apperrors "whisper-web/internal/app/errors"
	"whisper-web/internal/app/util/files"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

// Config holds the Gemini connection settings.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Transcriber sends audio inline to a Gemini model and returns its transcript.
type Transcriber struct {
	client *genai.Client
	model  string
}

// NewTranscriber creates a Gemini-backed transcriber.
func NewTranscriber(ctx context.Context, cfg Config) (*Transcriber, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Transcriber{client: client, model: model}, nil
}

// Transcribe implements api.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, audio io.Reader, filename string, _ api.ResponseFormat) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", apperrors.Wrap(err, "read audio")
	}

	parts := []*genai.Part{
		genai.NewPartFromText(instruction),
		genai.NewPartFromBytes(data, files.MediaType(filename)),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", classifyError(err)
	}
	return resp.Text(), nil
}

const instruction = "Transcribe this recording verbatim. Output only the transcript as plain text."

func classifyError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if isAuthFailure(apiErr) {
			return apperrors.Mark(err, apperrors.ErrAuthentication)
		}
		return apperrors.Mark(err, apperrors.ErrUpstream)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Mark(err, apperrors.ErrUpstream)
	}

	return apperrors.Wrap(err, "generateContent failed")
}

// Gemini reports a bad key as 400 INVALID_ARGUMENT, so the message is checked as well.
func isAuthFailure(apiErr genai.APIError) bool {
	switch apiErr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	}
	return apiErr.Status == "UNAUTHENTICATED" ||
		strings.Contains(apiErr.Message, "API key not valid")
}
