package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	apierrors "whisper-web/internal/api/errors"
)

const plainText = "text/plain; charset=utf-8"

// ErrorHandler recovers panics and answers with a plain-text 500. The panic
// value is logged, never sent to the client.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := GetRequestID(c)

		var apiErr *apierrors.APIError

		switch err := recovered.(type) {
		case *apierrors.APIError:
			apiErr = err
		case error:
			logger.Error("Internal server error",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			apiErr = apierrors.NewInternalError("Internal server error")
		default:
			logger.Error("Unknown panic occurred",
				zap.Any("recovered", recovered),
				zap.String("request_id", requestID),
			)
			apiErr = apierrors.NewInternalError("Internal server error")
		}

		render(c, apiErr)
	})
}

// HandleError writes err as a single-line plain-text response and aborts the
// chain. Errors that are not an APIError become a generic 500.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierrors.WrapError(err, apierrors.KindInternal, "Internal server error")
	}
	render(c, apiErr)
}

func render(c *gin.Context, apiErr *apierrors.APIError) {
	apiErr.RequestID = GetRequestID(c)
	c.Header("Content-Type", plainText)
	c.String(apiErr.HTTPStatus(), apiErr.Message)
	c.Abort()
}
