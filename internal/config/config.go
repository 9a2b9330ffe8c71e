package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// HTTP settings
	HTTPPort    int
	BearerToken string

	// Gemini settings
	GeminiAPIKey  string
	GeminiUseADC  bool
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// TTS settings
	DefaultVoice  string
	MaxTextLength int
	CacheMaxAge   time.Duration

	// Logging settings
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables with sane defaults.
// A .env file in the working directory is loaded first if present; variables
// already set in the environment win. A .env that exists but cannot be read
// or parsed is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		// HTTP settings
		HTTPPort:    getEnvInt("HTTP_PORT", 8080),
		BearerToken: os.Getenv("BEARER_TOKEN"),

		// Gemini settings
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiUseADC:  getEnvBool("GEMINI_USE_ADC", false),
		GeminiModel:   getEnvString("GEMINI_MODEL", "gemini-2.5-flash-preview-tts"),
		GeminiBaseURL: getEnvString("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout: getEnvDuration("GEMINI_TIMEOUT", 60*time.Second),

		// TTS settings
		DefaultVoice:  getEnvString("DEFAULT_VOICE", "Leda"),
		MaxTextLength: getEnvInt("MAX_TEXT_LENGTH", 5000),
		CacheMaxAge:   getEnvDuration("CACHE_MAX_AGE", time.Hour),

		// Logging settings
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
		LogFormat: getEnvString("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// AuthDisabled returns true if bearer token authentication is disabled.
func (c *Config) AuthDisabled() bool {
	return c.BearerToken == ""
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" && !c.GeminiUseADC {
		return errors.New("GEMINI_API_KEY is required (or set GEMINI_USE_ADC=true)")
	}

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return errors.New("HTTP_PORT must be between 1 and 65535")
	}

	if c.GeminiModel == "" {
		return errors.New("GEMINI_MODEL cannot be empty")
	}

	if c.GeminiBaseURL == "" {
		return errors.New("GEMINI_BASE_URL cannot be empty")
	}

	if c.GeminiTimeout <= 0 {
		return errors.New("GEMINI_TIMEOUT must be positive")
	}

	if c.MaxTextLength < 1 {
		return errors.New("MAX_TEXT_LENGTH must be at least 1")
	}

	if c.CacheMaxAge < 0 {
		return errors.New("CACHE_MAX_AGE must be non-negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return errors.New("LOG_LEVEL must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.LogFormat] {
		return errors.New("LOG_FORMAT must be one of: text, json")
	}

	return nil
}

// getEnvString returns the environment variable value or a default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the environment variable as an int or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool returns the environment variable as a bool or a default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration returns the environment variable as a duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
