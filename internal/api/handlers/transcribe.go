package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	apierrors "whisper-web/internal/api/errors"
	"whisper-web/internal/api/middleware"
	"whisper-web/internal/app/api"
	apperrors "whisper-web/internal/app/errors"
	"whisper-web/internal/app/util/files"
	"whisper-web/internal/metrics"
)

// FormField is the multipart field carrying the upload.
const FormField = "file"

// Per-request states, logged at debug level.
const (
	stateReceived     = "received"
	stateValidated    = "validated"
	stateSaved        = "saved"
	stateTranscribing = "transcribing"
	stateWritten      = "written"
	stateResponding   = "responding"
	stateError        = "error"
	stateCleanedUp    = "cleaned_up"
)

// TranscribeHandler turns one uploaded file into a downloadable transcript.
type TranscribeHandler struct {
	transcriber api.Transcriber
	settings    Settings
	logger      *zap.Logger
	metrics     *metrics.Metrics
}

// NewTranscribeHandler creates a new transcription handler. m may be nil.
func NewTranscribeHandler(transcriber api.Transcriber, settings Settings, logger *zap.Logger, m *metrics.Metrics) *TranscribeHandler {
	return &TranscribeHandler{
		transcriber: transcriber,
		settings:    settings,
		logger:      logger,
		metrics:     m,
	}
}

// Transcribe handles POST /transcribe
//
// The upload is saved to a scratch file, sent to the transcriber exactly
// once and the transcript is returned as a text/plain attachment. Both
// scratch files are removed before the handler returns, whatever happened.
func (h *TranscribeHandler) Transcribe(c *gin.Context) {
	log := h.logger.With(zap.String("request_id", middleware.GetRequestID(c)))
	log.Debug("transcription state", zap.String("state", stateReceived))

	var scratch files.Scratch
	defer func() {
		if err := scratch.Cleanup(); err != nil {
			log.Error("Error cleaning up files", zap.Error(err))
		}
		log.Debug("transcription state", zap.String("state", stateCleanedUp))
	}()

	downloadName, err := h.process(c, log, &scratch)
	if err != nil {
		log.Debug("transcription state", zap.String("state", stateError))
		h.fail(c, log, err)
		return
	}

	log.Debug("transcription state", zap.String("state", stateResponding))
	if err := sendAttachment(c, scratch.TranscriptPath, downloadName); err != nil {
		h.fail(c, log, err)
	}
}

// sendAttachment streams the transcript as a text/plain download. Range and
// conditional request headers are ignored; the body is always the whole file.
func sendAttachment(c *gin.Context, path, name string) error {
	transcript, err := os.Open(path)
	if err != nil {
		return apperrors.Wrap(err, "open transcript")
	}
	defer transcript.Close()

	info, err := transcript.Stat()
	if err != nil {
		return apperrors.Wrap(err, "stat transcript")
	}

	c.DataFromReader(http.StatusOK, info.Size(), "text/plain; charset=utf-8", transcript, map[string]string{
		"Content-Disposition": `attachment; filename="` + name + `"`,
	})
	return nil
}

// process runs every step up to the written transcript and returns the
// attachment name. scratch is filled in as soon as the paths are known so
// that the caller's cleanup covers them.
func (h *TranscribeHandler) process(c *gin.Context, log *zap.Logger, scratch *files.Scratch) (string, error) {
	if h.settings.APIKey == "" {
		return "", apperrors.ErrMissingAPIKey
	}

	upload, err := h.formFile(c)
	if err != nil {
		return "", err
	}

	if upload.Filename == "" {
		return "", apperrors.ErrNoFileSelected
	}
	if !files.HasAllowedExtension(upload.Filename) {
		return "", apperrors.Wrapf(apperrors.ErrInvalidFormat, "invalid file format: %s", upload.Filename)
	}

	filename := files.SecureFilename(upload.Filename)
	if !files.HasAllowedExtension(filename) {
		// Nothing usable survived sanitising.
		return "", apperrors.Wrapf(apperrors.ErrInvalidFormat, "unusable file name: %q", upload.Filename)
	}
	log.Debug("transcription state", zap.String("state", stateValidated), zap.String("filename", filename))

	*scratch = files.NewScratch(h.settings.ScratchDir, filename)

	log.Info("Processing file", zap.String("filename", filename))
	if err := c.SaveUploadedFile(upload, scratch.AudioPath); err != nil {
		return "", apperrors.Wrap(err, "save upload")
	}

	info, err := os.Stat(scratch.AudioPath)
	if err != nil {
		return "", apperrors.Mark(err, apperrors.ErrSaveFailed)
	}
	if info.Size() == 0 {
		return "", apperrors.ErrEmptyUpload
	}
	h.metrics.RecordUpload(info.Size())
	log.Info("File saved", zap.Int64("size_bytes", info.Size()))
	log.Debug("transcription state", zap.String("state", stateSaved))

	transcript, err := h.transcribe(c, log, scratch.AudioPath, filename)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(scratch.TranscriptPath, []byte(transcript), 0o644); err != nil {
		return "", apperrors.Wrap(err, "write transcript")
	}
	log.Info("Transcription completed successfully", zap.Int("transcript_bytes", len(transcript)))
	log.Debug("transcription state", zap.String("state", stateWritten))

	return files.TranscriptName(filename), nil
}

// formFile extracts the upload, telling a missing field apart from a file
// input that was submitted empty. Go's multipart reader files a part with an
// empty filename under the form values, not the files.
func (h *TranscribeHandler) formFile(c *gin.Context) (*multipart.FileHeader, error) {
	upload, err := c.FormFile(FormField)
	if err == nil {
		return upload, nil
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return nil, apperrors.Mark(err, apperrors.ErrUploadTooLarge)
	}
	if form := c.Request.MultipartForm; form != nil {
		if _, ok := form.Value[FormField]; ok {
			return nil, apperrors.ErrNoFileSelected
		}
	}
	return nil, apperrors.Mark(err, apperrors.ErrNoFilePart)
}

// transcribe sends the saved audio to the backend once.
func (h *TranscribeHandler) transcribe(c *gin.Context, log *zap.Logger, path, filename string) (string, error) {
	audio, err := os.Open(path)
	if err != nil {
		return "", apperrors.Wrap(err, "open upload")
	}
	defer audio.Close()

	log.Info("Starting transcription", zap.String("provider", h.settings.Backend))
	log.Debug("transcription state", zap.String("state", stateTranscribing))

	start := time.Now()
	transcript, err := h.transcriber.Transcribe(c.Request.Context(), audio, filename, api.FormatText)
	if err == nil && transcript == "" {
		err = apperrors.ErrEmptyTranscript
	}
	h.metrics.RecordTranscription(h.settings.Backend, outcome(err), time.Since(start).Seconds())

	return transcript, err
}

// fail logs err and writes the matching plain-text response.
func (h *TranscribeHandler) fail(c *gin.Context, log *zap.Logger, err error) {
	apiErr := h.toAPIError(err)
	if apiErr.HTTPStatus() >= http.StatusInternalServerError {
		log.Error("Transcription failed", zap.Int("status", apiErr.HTTPStatus()), zap.Error(err))
	} else {
		log.Warn("Transcription rejected", zap.Int("status", apiErr.HTTPStatus()), zap.Error(err))
	}
	middleware.HandleError(c, apiErr)
}

// toAPIError maps a failure to the status and single-line message the client
// sees.
func (h *TranscribeHandler) toAPIError(err error) *apierrors.APIError {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, apperrors.ErrMissingAPIKey):
		return apierrors.WrapError(err, apierrors.KindBadRequest, h.settings.keyNotSetMessage())
	case errors.Is(err, apperrors.ErrUploadTooLarge):
		return apierrors.WrapError(err, apierrors.KindPayloadTooLarge, middleware.TooLargeMessage(h.settings.MaxUploadBytes))
	case errors.Is(err, apperrors.ErrNoFilePart):
		return apierrors.WrapError(err, apierrors.KindBadRequest, "No file uploaded")
	case errors.Is(err, apperrors.ErrNoFileSelected):
		return apierrors.WrapError(err, apierrors.KindBadRequest, "No file selected")
	case errors.Is(err, apperrors.ErrInvalidFormat):
		return apierrors.WrapError(err, apierrors.KindBadRequest, "Invalid file format. Please upload an mp3, mp4, wav, or m4a file.")
	case errors.Is(err, apperrors.ErrEmptyUpload):
		return apierrors.WrapError(err, apierrors.KindBadRequest, "Uploaded file is empty")
	case errors.Is(err, apperrors.ErrEmptyTranscript):
		return apierrors.WrapError(err, apierrors.KindBadRequest, "No transcription generated")
	case errors.Is(err, apperrors.ErrAuthentication):
		return apierrors.WrapError(err, apierrors.KindUnauthorized, h.settings.invalidKeyMessage())
	case errors.Is(err, apperrors.ErrUpstream):
		return apierrors.WrapError(err, apierrors.KindServiceUnavailable, h.settings.serviceErrorMessage())
	case errors.Is(err, apperrors.ErrSaveFailed):
		return apierrors.WrapError(err, apierrors.KindInternal, "An unexpected error occurred: Failed to save uploaded file")
	default:
		return apierrors.WrapError(err, apierrors.KindInternal, fmt.Sprintf("An unexpected error occurred: %v", err))
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, apperrors.ErrEmptyTranscript):
		return metrics.OutcomeEmpty
	case errors.Is(err, apperrors.ErrAuthentication):
		return metrics.OutcomeAuthError
	case errors.Is(err, apperrors.ErrUpstream):
		return metrics.OutcomeUpstreamError
	default:
		return metrics.OutcomeError
	}
}
