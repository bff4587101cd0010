package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"whisper-web/internal/api/handlers"
	"whisper-web/internal/api/middleware"
	"whisper-web/internal/app/api"
	"whisper-web/internal/app/util/files"
	"whisper-web/internal/config"
	"whisper-web/internal/metrics"
)

// Config represents API server configuration
type Config struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string

	// Handlers carries the credential, scratch directory and upload ceiling.
	Handlers handlers.Settings
}

// ConfigFromApp builds the server configuration from the loaded application
// configuration.
func ConfigFromApp(cfg *config.Config) Config {
	return Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		Environment:  cfg.Server.Environment,
		Handlers:     handlers.SettingsFromConfig(cfg),
	}
}

// Server represents the API server
type Server struct {
	config     Config
	router     *gin.Engine
	httpServer *http.Server
	metrics    *metrics.Metrics
	logger     *zap.Logger
	listener   net.Listener
}

// NewServer creates a new API server
func NewServer(config Config, transcriber api.Transcriber, logger *zap.Logger) (*Server, error) {
	switch config.Environment {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if err := files.EnsureDir(config.Handlers.ScratchDir); err != nil {
		return nil, fmt.Errorf("prepare scratch directory: %w", err)
	}

	tmpl, err := handlers.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	m := metrics.NewMetrics()

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	// Apply global middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogging(logger))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Metrics(m))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	landing := handlers.NewLandingHandler(config.Handlers, logger)
	transcribe := handlers.NewTranscribeHandler(transcriber, config.Handlers, logger, m)

	router.GET("/", landing.Index)
	router.POST("/transcribe", middleware.BodyLimit(config.Handlers.MaxUploadBytes), transcribe.Transcribe)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	addr := net.JoinHostPort(config.Host, config.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return &Server{
		config:     config,
		router:     router,
		httpServer: httpServer,
		metrics:    m,
		logger:     logger,
	}, nil
}

// Start binds the listen address and serves in the background. Bind errors
// are returned; errors after that are logged.
func (s *Server) Start() error {
	s.logger.Info("Starting API server",
		zap.String("host", s.config.Host),
		zap.String("port", s.config.Port),
		zap.String("environment", s.config.Environment),
		zap.String("provider", s.config.Handlers.Backend),
	)

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	s.logger.Info("API server started successfully",
		zap.String("address", listener.Addr().String()),
	)
	if s.config.Handlers.APIKey == "" {
		s.logger.Error("API key not found in environment variables",
			zap.String("env", s.config.Handlers.APIKeyEnv),
		)
	}

	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.httpServer.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the Gin router (useful for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Metrics returns the server's metric set.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}
