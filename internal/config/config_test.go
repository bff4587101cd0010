package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// isolateEnv blanks every variable Load reads so the host environment does
// not leak into assertions. Empty values are treated as unset.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		OpenAIAPIKeyEnv,
		GeminiAPIKeyEnv,
		ConfigFileEnv,
		"WHISPER_WEB_OPENAI_API_KEY",
		"WHISPER_WEB_GEMINI_API_KEY",
		"WHISPER_WEB_SERVER_PORT",
		"WHISPER_WEB_SERVER_MAX_UPLOAD_MB",
		"WHISPER_WEB_SERVER_SCRATCH_DIR",
		"WHISPER_WEB_TRANSCRIPTION_BACKEND",
		"WHISPER_WEB_TRANSCRIPTION_TIMEOUT",
		"WHISPER_WEB_LOGGING_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "whisper-web.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultWriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, DefaultMaxUploadMB, cfg.Server.MaxUploadMB)
	assert.Equal(t, int64(26*1024*1024), cfg.MaxUploadBytes())
	assert.Equal(t, os.TempDir(), cfg.Server.ScratchDir)
	assert.Equal(t, "openai", cfg.Transcription.Backend)
	assert.Equal(t, time.Duration(0), cfg.Transcription.Timeout)
	assert.Equal(t, "whisper-1", cfg.Model())
	assert.Empty(t, cfg.APIKey())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv(OpenAIAPIKeyEnv, "  sk-test-1234567890  ")

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "sk-test-1234567890", cfg.APIKey())
	assert.Equal(t, OpenAIAPIKeyEnv, cfg.APIKeyEnv())
	assert.Equal(t, "OpenAI", cfg.ProviderName())
}

func TestLoad_PrefixedKeyWins(t *testing.T) {
	isolateEnv(t)
	t.Setenv(OpenAIAPIKeyEnv, "plain")
	t.Setenv("WHISPER_WEB_OPENAI_API_KEY", "prefixed")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.OpenAI.APIKey)
}

func TestLoad_ConfigFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, `
server:
  port: "9090"
  max_upload_mb: 10
  write_timeout: 2m
transcription:
  backend: gemini
  timeout: 45s
gemini:
  api_key: AIza-from-file
logging:
  level: debug
`)

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.MaxUploadMB)
	assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
	assert.Equal(t, 45*time.Second, cfg.Transcription.Timeout)
	assert.Equal(t, "AIza-from-file", cfg.APIKey())
	assert.Equal(t, GeminiAPIKeyEnv, cfg.APIKeyEnv())
	assert.Equal(t, "Gemini", cfg.ProviderName())
	assert.Equal(t, DefaultGeminiModel, cfg.Model())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, "server:\n  port: \"9090\"\n")
	t.Setenv("WHISPER_WEB_SERVER_PORT", "7070")

	cfg, err := Load(Options{ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoad_ConfigFileFromEnvironment(t *testing.T) {
	isolateEnv(t)
	path := writeConfigFile(t, "server:\n  max_upload_mb: 5\n")
	t.Setenv(ConfigFileEnv, path)

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Server.MaxUploadMB)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	isolateEnv(t)

	_, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoad_EnvFile(t *testing.T) {
	isolateEnv(t)
	os.Unsetenv(OpenAIAPIKeyEnv)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("OPENAI_API_KEY=sk-from-dotenv\n"), 0o600))

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-dotenv", cfg.APIKey())
	assert.Equal(t, envFile, cfg.EnvFile)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(*Config)
		errorContains string
	}{
		{
			name:          "unknown backend",
			mutate:        func(c *Config) { c.Transcription.Backend = "whisper_cpp" },
			errorContains: "transcription.backend must be one of [openai gemini]",
		},
		{
			name:          "upload ceiling too small",
			mutate:        func(c *Config) { c.Server.MaxUploadMB = 0 },
			errorContains: "server.maxuploadmb must be at least 1",
		},
		{
			name:          "missing scratch dir",
			mutate:        func(c *Config) { c.Server.ScratchDir = "" },
			errorContains: "server.scratchdir is required",
		},
		{
			name:          "non numeric port",
			mutate:        func(c *Config) { c.Server.Port = "http" },
			errorContains: "server.port is invalid",
		},
		{
			name:          "bad log level",
			mutate:        func(c *Config) { c.Logging.Level = "verbose" },
			errorContains: "logging.level must be one of",
		},
		{
			name:          "bad base url",
			mutate:        func(c *Config) { c.Transcription.BaseURL = "not a url" },
			errorContains: "transcription.baseurl is invalid",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}

	valid := validConfig()
	assert.NoError(t, valid.Validate())
}

func TestYAML_RedactsCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.OpenAI.APIKey = "sk-secret"

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "sk-secret")

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	openai := decoded["openai"].(map[string]interface{})
	assert.Equal(t, redactedPlaceholder, openai["api_key"])

	// The receiver keeps its secret.
	assert.Equal(t, "sk-secret", cfg.OpenAI.APIKey)
}

func validConfig() Config {
	return Config{
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			Environment: "test",
			MaxUploadMB: DefaultMaxUploadMB,
			ScratchDir:  os.TempDir(),
		},
		Transcription: TranscriptionConfig{Backend: "openai"},
		Logging:       LoggingConfig{Level: "info"},
	}
}
