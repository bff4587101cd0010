package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the complete service configuration.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" yaml:"server"`
	Transcription TranscriptionConfig `mapstructure:"transcription" yaml:"transcription"`
	OpenAI        CredentialConfig    `mapstructure:"openai" yaml:"openai"`
	Gemini        CredentialConfig    `mapstructure:"gemini" yaml:"gemini"`
	Logging       LoggingConfig       `mapstructure:"logging" yaml:"logging"`

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string `mapstructure:"-" yaml:"-"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host" yaml:"host"`
	Port         string        `mapstructure:"port" yaml:"port" validate:"required,numeric"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout" validate:"gte=0"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"gte=0"`
	Environment  string        `mapstructure:"environment" yaml:"environment" validate:"oneof=development production test"`
	MaxUploadMB  int           `mapstructure:"max_upload_mb" yaml:"max_upload_mb" validate:"min=1,max=1024"`
	ScratchDir   string        `mapstructure:"scratch_dir" yaml:"scratch_dir" validate:"required"`
}

// TranscriptionConfig selects and tunes the remote transcription backend
type TranscriptionConfig struct {
	Backend string        `mapstructure:"backend" yaml:"backend" validate:"oneof=openai gemini"`
	Model   string        `mapstructure:"model" yaml:"model"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
}

// CredentialConfig holds a backend API key
type CredentialConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
}

// LoggingConfig controls the zap logger
type LoggingConfig struct {
	Level       string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development" yaml:"development"`
}

// Options controls where Load looks for configuration.
type Options struct {
	ConfigFile string
	EnvFile    string
}

var validate = validator.New()

// Load reads configuration from, in increasing priority: built-in defaults,
// a YAML config file, and environment variables (WHISPER_WEB_*, plus
// OPENAI_API_KEY and GEMINI_API_KEY). A .env file is loaded first.
//
// A missing API key is not an error here; it is reported per request.
func Load(opts Options) (*Config, error) {
	envFile, err := LoadEnv(opts.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	explicitFile := false
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		explicitFile = true
	} else if cfg := os.Getenv(ConfigFileEnv); cfg != "" {
		v.SetConfigFile(cfg)
		explicitFile = true
	}

	if !explicitFile {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("openai.api_key", EnvPrefix+"_OPENAI_API_KEY", OpenAIAPIKeyEnv)
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", GeminiAPIKeyEnv)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.OpenAI.APIKey = strings.TrimSpace(cfg.OpenAI.APIKey)
	cfg.Gemini.APIKey = strings.TrimSpace(cfg.Gemini.APIKey)
	cfg.EnvFile = envFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.idle_timeout", DefaultIdleTimeout)
	v.SetDefault("server.environment", DefaultEnvironment)
	v.SetDefault("server.max_upload_mb", DefaultMaxUploadMB)
	v.SetDefault("server.scratch_dir", os.TempDir())

	v.SetDefault("transcription.backend", DefaultBackend)
	v.SetDefault("transcription.model", "")
	v.SetDefault("transcription.base_url", "")
	v.SetDefault("transcription.timeout", time.Duration(0))

	v.SetDefault("openai.api_key", "")
	v.SetDefault("gemini.api_key", "")

	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.development", false)
}

// Validate checks struct constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	problems := make([]string, 0, len(validationErrs))
	for _, fieldError := range validationErrs {
		field := strings.ToLower(strings.TrimPrefix(fieldError.Namespace(), "Config."))
		switch fieldError.Tag() {
		case "required":
			problems = append(problems, field+" is required")
		case "oneof":
			problems = append(problems, fmt.Sprintf("%s must be one of [%s]", field, fieldError.Param()))
		case "min", "gte":
			problems = append(problems, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
		case "max":
			problems = append(problems, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
		default:
			problems = append(problems, field+" is invalid")
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
}

// APIKey returns the credential of the selected backend.
func (c *Config) APIKey() string {
	if c.Transcription.Backend == "gemini" {
		return c.Gemini.APIKey
	}
	return c.OpenAI.APIKey
}

// APIKeyEnv names the environment variable that supplies APIKey.
func (c *Config) APIKeyEnv() string {
	if c.Transcription.Backend == "gemini" {
		return GeminiAPIKeyEnv
	}
	return OpenAIAPIKeyEnv
}

// ProviderName is the human-readable name of the selected backend.
func (c *Config) ProviderName() string {
	if c.Transcription.Backend == "gemini" {
		return "Gemini"
	}
	return "OpenAI"
}

// Model returns the configured model or the backend default.
func (c *Config) Model() string {
	if c.Transcription.Model != "" {
		return c.Transcription.Model
	}
	if c.Transcription.Backend == "gemini" {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// MaxUploadBytes is the upload ceiling in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// Redacted returns a copy with credentials masked.
func (c *Config) Redacted() Config {
	out := *c
	out.OpenAI.APIKey = redact(c.OpenAI.APIKey)
	out.Gemini.APIKey = redact(c.Gemini.APIKey)
	return out
}

// YAML renders the redacted configuration.
func (c *Config) YAML() ([]byte, error) {
	redacted := c.Redacted()
	return yaml.Marshal(&redacted)
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return redactedPlaceholder
}
