package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"whisper-web/internal/app/util/files"
)

// Uploader posts local media files to a running whisper-web server and
// stores the returned transcript.
type Uploader struct {
	baseURL    string
	httpClient *http.Client
	progress   *ProgressManager
}

// NewUploader creates an uploader for the server at baseURL. A nil
// httpClient means http.DefaultClient.
func NewUploader(baseURL string, httpClient *http.Client, progress ProgressConfig) *Uploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Uploader{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		progress:   NewProgressManager(progress),
	}
}

// ServerError is a non-200 answer from the server.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Upload sends path to /transcribe and writes the attachment into outDir.
// It returns the path of the written transcript.
func (u *Uploader) Upload(ctx context.Context, path, outDir string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	// The envelope is built up front so the request carries an exact
	// Content-Length and oversized files are refused before they are sent.
	var envelope bytes.Buffer
	writer := multipart.NewWriter(&envelope)
	if _, err := writer.CreateFormFile("file", filepath.Base(path)); err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	head := append([]byte(nil), envelope.Bytes()...)
	envelope.Reset()
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	tail := envelope.Bytes()

	bar := u.progress.CreateBar(info.Size(), "Uploading "+filepath.Base(path))
	defer u.progress.Wait()
	defer bar.Abort()

	body := io.MultiReader(bytes.NewReader(head), bar.ProxyReader(file), bytes.NewReader(tail))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/transcribe", body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(head)) + info.Size() + int64(len(tail))
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(message))}
	}
	bar.Complete()

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = files.TranscriptName(path)
	}
	if err := files.EnsureDir(outDir); err != nil {
		return "", err
	}
	target := filepath.Join(outDir, name)

	out, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", target, err)
	}
	return target, nil
}

// attachmentName extracts a safe file name from a Content-Disposition header.
func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	name := filepath.Base(params["filename"])
	if name == "." || name == "/" {
		return ""
	}
	return name
}
