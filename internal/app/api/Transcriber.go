package api

import (
	"context"
	"io"
)

// ResponseFormat selects the representation the remote service returns.
type ResponseFormat string

// FormatText asks for the bare transcript.
const FormatText ResponseFormat = "text"

// Transcriber defines a transcription interface for converting audio content to text.
//
// Implementations report a rejected credential as errors.ErrAuthentication and a
// failing or unreachable service as errors.ErrUpstream (package
// whisper-web/internal/app/errors). Any other error is treated as internal.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string, format ResponseFormat) (string, error)
}

// TranscriberFunc adapts an ordinary function to the Transcriber interface.
type TranscriberFunc func(ctx context.Context, audio io.Reader, filename string, format ResponseFormat) (string, error)

// Transcribe calls f.
func (f TranscriberFunc) Transcribe(ctx context.Context, audio io.Reader, filename string, format ResponseFormat) (string, error) {
	return f(ctx, audio, filename, format)
}
