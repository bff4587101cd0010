package testutil

import (
	"context"
	"io"
	"sync"

	"github.com/stretchr/testify/mock"
	"whisper-web/internal/app/api"
)

// MockTranscriber is a testify mock of api.Transcriber.
//
// The audio stream is drained before the expectation is matched so that
// tests can assert on what was uploaded through Received.
type MockTranscriber struct {
	mock.Mock
	mu sync.Mutex

	// State tracking
	CallHistory []TranscriptionCall
}

// TranscriptionCall represents a single transcription call for tracking
type TranscriptionCall struct {
	Filename string
	Format   api.ResponseFormat
	Audio    []byte
}

// NewMockTranscriber creates a MockTranscriber bound to t's cleanup.
func NewMockTranscriber(t mock.TestingT) *MockTranscriber {
	m := &MockTranscriber{}
	m.Test(t)
	return m
}

// Transcribe implements the api.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string, format api.ResponseFormat) (string, error) {
	var data []byte
	if audio != nil {
		var err error
		data, err = io.ReadAll(audio)
		if err != nil {
			return "", err
		}
	}

	m.mu.Lock()
	m.CallHistory = append(m.CallHistory, TranscriptionCall{
		Filename: filename,
		Format:   format,
		Audio:    data,
	})
	m.mu.Unlock()

	args := m.Called(ctx, filename, format)
	return args.String(0), args.Error(1)
}

// Received returns a copy of the recorded calls.
func (m *MockTranscriber) Received() []TranscriptionCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranscriptionCall(nil), m.CallHistory...)
}

// Compile-time check that MockTranscriber implements api.Transcriber
var _ api.Transcriber = (*MockTranscriber)(nil)
