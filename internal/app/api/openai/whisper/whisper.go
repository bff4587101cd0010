package whisper

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"whisper-web/internal/app/api"
	apperrors "whisper-web/internal/app/errors"
)

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client *openai.Client
	model  string
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, model string) *RemoteTranscriber {
	if model == "" {
		model = string(openai.Whisper1)
	}
	return &RemoteTranscriber{client: client, model: model}
}

// Transcribe uploads audio to the OpenAI transcription endpoint in a single call.
func (rt *RemoteTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string, format api.ResponseFormat) (string, error) {
	req := openai.AudioRequest{
		Model:    rt.model,
		FilePath: filename,
		Reader:   audio,
		Format:   openai.AudioResponseFormat(format),
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", classifyError(err)
	}

	return resp.Text, nil
}

// classifyError sorts client errors into authentication failures, service
// failures and everything else. Transport failures count as service failures.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return byStatus(err, apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return byStatus(err, reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Mark(err, apperrors.ErrUpstream)
	}

	return apperrors.Wrap(err, "createTranscription failed")
}

func byStatus(err error, status int) error {
	if status == http.StatusUnauthorized {
		return apperrors.Mark(err, apperrors.ErrAuthentication)
	}
	return apperrors.Mark(err, apperrors.ErrUpstream)
}
