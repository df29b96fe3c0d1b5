package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/medi-assistant/internal/entity"
	pkgRetry "github.com/futig/medi-assistant/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8080"`
	// RequestTimeout bounds one HTTP request, including the whole advice pipeline.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"180s"`
	DocsSpecPath   string        `env:"DOCS_SPEC_PATH" envDefault:"docs/swagger.yaml"`
	// Browser origins allowed by CORS, comma separated.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Credential for the hosted model endpoints. Optional: when absent the
	// advice pipeline answers with a placeholder instead of failing.
	HFAPIKey string `env:"HF_API_KEY"`

	// Database configuration. Empty DATABASE_URL disables the advice history.
	DatabaseURL         string               `env:"DATABASE_URL"`
	DBMaxConns          int                  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int                  `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration        `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration        `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration        `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
	DBConnectRetry      pkgRetry.RetryConfig `envPrefix:"DB_RETRY_"`
	MigrationsPath      string               `env:"MIGRATIONS_PATH" envDefault:"internal/repository/migrations"`

	// External service configurations
	LLMConnectorCfg        LLMConnectorConfig        `envPrefix:"LLM_"`
	TranslatorConnectorCfg TranslatorConnectorConfig `envPrefix:"TRANSLATE_"`
	SpeechConnectorCfg     SpeechConnectorConfig     `envPrefix:"SPEECH_"`

	// Session state configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// Synthesized audio storage
	AudioCfg AudioConfig `envPrefix:"AUDIO_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (optional)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	Url                 string  `env:"SERVICE_URL" envDefault:"https://router.huggingface.co/v1"`
	Model               string  `env:"MODEL" envDefault:"meta-llama/Llama-3.1-8B-Instruct:cerebras"`
	Temperature         float32 `env:"TEMPERATURE" envDefault:"0.3"`
	MaxTokens           int     `env:"MAX_TOKENS" envDefault:"1200"`
	SuggestionMaxTokens int     `env:"SUGGESTION_MAX_TOKENS" envDefault:"200"`
}

type TranslatorConnectorConfig struct {
	HTTPClientConfig
	Url               string `env:"SERVICE_URL" envDefault:"https://libretranslate.com"`
	TranslateEndpoint string `env:"ENDPOINT" envDefault:"/translate"`
	APIKey            string `env:"API_KEY"`
}

type SpeechConnectorConfig struct {
	HTTPClientConfig
	// Provider selects the synthesizer: "google" (translate_tts) or "huggingface".
	Provider       string `env:"PROVIDER" envDefault:"google"`
	Url            string `env:"SERVICE_URL" envDefault:"https://translate.google.com"`
	SpeechEndpoint string `env:"ENDPOINT" envDefault:"/translate_tts"`
	ChunkSize      int    `env:"CHUNK_SIZE" envDefault:"100"`
	// HFUrl and Model are only used by the huggingface provider.
	HFUrl string `env:"HF_SERVICE_URL" envDefault:"https://router.huggingface.co/hf-inference/models"`
	Model string `env:"MODEL" envDefault:"facebook/mms-tts-eng"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"45s"`
	BreakerOpenTimeout    time.Duration `env:"BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
}

type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"2h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	MaxInputLength  int           `env:"MAX_INPUT_LENGTH" envDefault:"2000"`
	DefaultLanguage string        `env:"DEFAULT_LANGUAGE" envDefault:"en"`
}

type AudioConfig struct {
	Dir string `env:"DIR" envDefault:"data/audio"`
}

// LoadConfig parses the -env flag, loads the matching .env file and the environment.
func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	return Load(*envFlag)
}

// Load reads configuration for the named environment.
func Load(environment string) (*Config, error) {
	envFile := getEnvFile(environment)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = environment

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	if cfg.LLMConnectorCfg.Temperature < 0 || cfg.LLMConnectorCfg.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("LLM_TEMPERATURE must be between 0 and 2, got %v", cfg.LLMConnectorCfg.Temperature))
	}

	if cfg.LLMConnectorCfg.MaxTokens < 1 || cfg.LLMConnectorCfg.MaxTokens > 8192 {
		errors = append(errors, fmt.Sprintf("LLM_MAX_TOKENS must be between 1 and 8192, got %d", cfg.LLMConnectorCfg.MaxTokens))
	}

	if cfg.LLMConnectorCfg.SuggestionMaxTokens < 1 || cfg.LLMConnectorCfg.SuggestionMaxTokens > 8192 {
		errors = append(errors, fmt.Sprintf("LLM_SUGGESTION_MAX_TOKENS must be between 1 and 8192, got %d", cfg.LLMConnectorCfg.SuggestionMaxTokens))
	}

	switch cfg.SpeechConnectorCfg.Provider {
	case SpeechProviderGoogle, SpeechProviderHuggingFace:
	default:
		errors = append(errors, fmt.Sprintf("SPEECH_PROVIDER must be %q or %q, got %q", SpeechProviderGoogle, SpeechProviderHuggingFace, cfg.SpeechConnectorCfg.Provider))
	}

	if cfg.SpeechConnectorCfg.ChunkSize < 20 || cfg.SpeechConnectorCfg.ChunkSize > 200 {
		errors = append(errors, fmt.Sprintf("SPEECH_CHUNK_SIZE must be between 20 and 200, got %d", cfg.SpeechConnectorCfg.ChunkSize))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, "REQUEST_TIMEOUT must be positive")
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		errors = append(errors, "CORS_ALLOWED_ORIGINS must list at least one origin")
	}

	if cfg.SessionCfg.TTL <= 0 {
		errors = append(errors, "SESSION_TTL must be positive")
	}

	if cfg.SessionCfg.MaxInputLength < 1 {
		errors = append(errors, fmt.Sprintf("SESSION_MAX_INPUT_LENGTH must be positive, got %d", cfg.SessionCfg.MaxInputLength))
	}

	if !entity.Language(cfg.SessionCfg.DefaultLanguage).IsValid() {
		errors = append(errors, fmt.Sprintf("SESSION_DEFAULT_LANGUAGE is not a supported language: %q", cfg.SessionCfg.DefaultLanguage))
	}

	if cfg.AudioCfg.Dir == "" {
		errors = append(errors, "AUDIO_DIR must not be empty")
	}

	if cfg.DatabaseURL != "" {
		if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
			errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
		}

		if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
			errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
		}
	}

	if cfg.TelegramCfg.RateLimitPerMinute < 1 || cfg.TelegramCfg.RateLimitPerMinute > 60 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_PER_MINUTE must be between 1 and 60, got %d", cfg.TelegramCfg.RateLimitPerMinute))
	}

	if cfg.TelegramCfg.RateLimitBurst < 1 || cfg.TelegramCfg.RateLimitBurst > 20 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_RATE_LIMIT_BURST must be between 1 and 20, got %d", cfg.TelegramCfg.RateLimitBurst))
	}

	if cfg.TelegramCfg.ShutdownTimeout < 1 || cfg.TelegramCfg.ShutdownTimeout > 300 {
		errors = append(errors, fmt.Sprintf("TELEGRAM_SHUTDOWN_TIMEOUT must be between 1 and 300 seconds, got %d", cfg.TelegramCfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

const (
	SpeechProviderGoogle      = "google"
	SpeechProviderHuggingFace = "huggingface"
)

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
