package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"whisper-web/internal/api/middleware"
	"whisper-web/internal/app/util/files"
)

//go:embed templates/*.html
var templateFS embed.FS

// IndexTemplate is the name of the landing page template.
const IndexTemplate = "index.html"

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}

// LandingHandler serves the upload page.
type LandingHandler struct {
	settings Settings
	logger   *zap.Logger
}

// NewLandingHandler creates a new landing page handler
func NewLandingHandler(settings Settings, logger *zap.Logger) *LandingHandler {
	return &LandingHandler{
		settings: settings,
		logger:   logger,
	}
}

// Index handles GET /
func (h *LandingHandler) Index(c *gin.Context) {
	if h.settings.APIKey == "" {
		h.logger.Error("No API key found",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("env", h.settings.APIKeyEnv),
		)
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.String(http.StatusInternalServerError, h.settings.keyNotFoundMessage())
		return
	}

	c.HTML(http.StatusOK, IndexTemplate, gin.H{
		"Provider":    h.settings.ProviderName,
		"Accept":      strings.Join(files.AllowedExtensions, ","),
		"Formats":     lo.Map(files.AllowedExtensions, func(ext string, _ int) string { return strings.TrimPrefix(ext, ".") }),
		"MaxUploadMB": h.settings.MaxUploadBytes >> 20,
	})
}
