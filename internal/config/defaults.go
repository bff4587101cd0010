package config

import "time"

// Default configuration constants
const (
	// Network defaults
	DefaultHost = "0.0.0.0"
	DefaultPort = "8080"

	// Timeout defaults. The write timeout has to outlast a full transcription.
	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = 10 * time.Minute
	DefaultIdleTimeout  = 120 * time.Second

	// Upload ceiling enforced before the transcription handler runs
	DefaultMaxUploadMB = 26

	// Backend defaults
	DefaultBackend      = "openai"
	DefaultOpenAIModel  = "whisper-1"
	DefaultGeminiModel  = "gemini-2.0-flash"
	DefaultEnvironment  = "development"
	DefaultLogLevel     = "info"
	EnvPrefix           = "WHISPER_WEB"
	ConfigFileEnv       = EnvPrefix + "_CONFIG"
	DefaultConfigName   = "whisper-web"
	OpenAIAPIKeyEnv     = "OPENAI_API_KEY"
	GeminiAPIKeyEnv     = "GEMINI_API_KEY"
	redactedPlaceholder = "********"
)
