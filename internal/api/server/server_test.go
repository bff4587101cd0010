package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"whisper-web/internal/api/handlers"
	"whisper-web/internal/app/api"
	"whisper-web/internal/app/testutil"
)

func newTestServer(t *testing.T, maxUpload int64) (*Server, *testutil.MockTranscriber, string) {
	t.Helper()
	scratch := t.TempDir()
	transcriber := testutil.NewMockTranscriber(t)

	srv, err := NewServer(Config{
		Host:        "127.0.0.1",
		Port:        "0",
		Environment: "test",
		Handlers: handlers.Settings{
			APIKey:         "sk-test",
			APIKeyEnv:      "OPENAI_API_KEY",
			ProviderName:   "OpenAI",
			Backend:        "openai",
			ScratchDir:     scratch,
			MaxUploadBytes: maxUpload,
		},
	}, transcriber, zap.NewNop())
	require.NoError(t, err)
	return srv, transcriber, scratch
}

func TestServer_Routes(t *testing.T) {
	srv, transcriber, _ := newTestServer(t, 26<<20)
	transcriber.On("Transcribe", mock.Anything, "sample.mp3", api.FormatText).Return("hello world", nil)
	router := srv.Router()

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.NotZero(t, body["timestamp"])
	})

	t.Run("landing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("transcribe", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, testutil.NewFileUploadRequest(t, "/transcribe", "sample.mp3", testutil.WAVHeader))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello world", rec.Body.String())
		assert.Equal(t, `attachment; filename="transcription_sample.txt"`, rec.Header().Get("Content-Disposition"))
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `whisper_web_http_requests_total{endpoint="/transcribe",method="POST",status_code="200"} 1`)
		assert.Contains(t, rec.Body.String(), `whisper_web_transcriptions_total{outcome="success",provider="openai"} 1`)
	})

	t.Run("transcribe is POST only", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transcribe", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_RejectsOversizedUploads(t *testing.T) {
	const limit = 1 << 20
	payload := bytes.Repeat([]byte{0xAB}, limit+1)

	t.Run("declared length", func(t *testing.T) {
		srv, transcriber, scratch := newTestServer(t, limit)

		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, testutil.NewFileUploadRequest(t, "/transcribe", "big.mp3", payload))

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "File too large. Maximum size is 1 MB.", rec.Body.String())
		transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
		assertEmptyDir(t, scratch)
	})

	t.Run("streamed body", func(t *testing.T) {
		srv, transcriber, scratch := newTestServer(t, limit)

		req := testutil.NewFileUploadRequest(t, "/transcribe", "big.mp3", payload)
		req.ContentLength = -1
		req.Body = io.NopCloser(req.Body)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "File too large. Maximum size is 1 MB.", rec.Body.String())
		transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything, mock.Anything)
		assertEmptyDir(t, scratch)
	})
}

func TestServer_StartAndShutdown(t *testing.T) {
	srv, _, _ := newTestServer(t, 26<<20)
	require.NoError(t, srv.Start())

	resp, err := http.Get(fmt.Sprintf("http://%s/health", srv.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))

	_, err = http.Get(fmt.Sprintf("http://%s/health", srv.Addr()))
	assert.Error(t, err)
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	first, _, _ := newTestServer(t, 26<<20)
	require.NoError(t, first.Start())
	defer first.Shutdown(context.Background())

	second, _, _ := newTestServer(t, 26<<20)
	second.httpServer.Addr = first.Addr()
	assert.Error(t, second.Start())
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
