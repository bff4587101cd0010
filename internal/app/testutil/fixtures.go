package testutil

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
)

// WAVHeader is a minimal valid audio payload (44-byte PCM WAV header)
var WAVHeader = []byte{
	0x52, 0x49, 0x46, 0x46, // "RIFF"
	0x24, 0x00, 0x00, 0x00, // File size
	0x57, 0x41, 0x56, 0x45, // "WAVE"
	0x66, 0x6D, 0x74, 0x20, // "fmt "
	0x10, 0x00, 0x00, 0x00, // Chunk size
	0x01, 0x00, // Audio format (PCM)
	0x01, 0x00, // Channels (mono)
	0x80, 0x3E, 0x00, 0x00, // Sample rate (16000)
	0x00, 0x7D, 0x00, 0x00, // Byte rate
	0x02, 0x00, // Block align
	0x10, 0x00, // Bits per sample
	0x64, 0x61, 0x74, 0x61, // "data"
	0x00, 0x00, 0x00, 0x00, // Data size
}

// Sample API error bodies in the OpenAI wire format
const (
	OpenAIUnauthorizedBody = `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`
	OpenAIServerErrorBody  = `{"error": {"message": "The server had an error while processing your request.", "type": "server_error"}}`
)

// UploadPart describes one multipart field of a test upload.
type UploadPart struct {
	Field    string
	Filename string
	Content  []byte
}

// NewUploadRequest builds a multipart POST to target carrying parts.
func NewUploadRequest(t testing.TB, target string, parts ...UploadPart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, part := range parts {
		// Browsers send an empty file input as a part with filename="".
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, part.Field, part.Filename))
		header.Set("Content-Type", "application/octet-stream")
		fw, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create form part: %v", err)
		}
		if _, err := fw.Write(part.Content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// NewFileUploadRequest is NewUploadRequest for a single "file" field.
func NewFileUploadRequest(t testing.TB, target, filename string, content []byte) *http.Request {
	t.Helper()
	return NewUploadRequest(t, target, UploadPart{Field: "file", Filename: filename, Content: content})
}
