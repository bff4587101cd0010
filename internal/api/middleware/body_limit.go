package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "whisper-web/internal/api/errors"
)

// TooLargeMessage is the response body for uploads above maxBytes.
func TooLargeMessage(maxBytes int64) string {
	return fmt.Sprintf("File too large. Maximum size is %d MB.", maxBytes>>20)
}

// BodyLimit rejects requests whose declared Content-Length exceeds maxBytes
// with 413 and caps every other body with http.MaxBytesReader. Handlers see
// a *http.MaxBytesError when a body without a length runs over.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			HandleError(c, apierrors.NewPayloadTooLargeError(TooLargeMessage(maxBytes)))
			return
		}

		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}
