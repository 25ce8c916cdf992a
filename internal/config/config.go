// Package config provides environment configuration loading and validation
// for the gateway.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Defaults for the two upstream APIs. The flora default mirrors the host
// the legacy dashboard fetched directly; it is configurable here.
const (
	DefaultBackendURL  = "http://localhost:8081"
	DefaultFloraAPIURL = "http://127.0.0.1:8000"
	DefaultGeminiAPI   = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel = "gemini-1.5-flash"
)

// Config holds all process-wide configuration. It is read once at startup
// and treated as read-only afterwards; no handler mutates it.
type Config struct {
	Port          string
	AppEnv        string
	AllowedOrigin string
	StaticDir     string

	BackendURL  string
	FloraAPIURL string

	GeminiAPIURL string
	GeminiAPIKey string
	GeminiModel  string

	SessionSecret string
	SessionMaxAge int

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from environment variables, applying defaults.
// It fails fast when SESSION_SECRET is missing: without it no session can
// be encoded or decoded and every protected route would be dead.
func Load() (*Config, error) {
	if err := ValidateEnv([]string{"SESSION_SECRET"}); err != nil {
		return nil, err
	}

	maxAge, err := getEnvInt("SESSION_MAX_AGE", 3600)
	if err != nil {
		return nil, err
	}

	readTimeout, err := getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	writeTimeout, err := getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	idleTimeout, err := getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:          GetEnvOrDefault("PORT", "8080"),
		AppEnv:        GetEnvOrDefault("APP_ENV", "development"),
		AllowedOrigin: GetEnvOrDefault("ALLOWED_ORIGIN", "http://localhost:3000"),
		StaticDir:     os.Getenv("STATIC_DIR"),

		BackendURL:  strings.TrimRight(GetEnvOrDefault("BACKEND_URL", DefaultBackendURL), "/"),
		FloraAPIURL: strings.TrimRight(GetEnvOrDefault("FLORA_API_URL", DefaultFloraAPIURL), "/"),

		GeminiAPIURL: strings.TrimRight(GetEnvOrDefault("GEMINI_API_URL", DefaultGeminiAPI), "/"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  GetEnvOrDefault("GEMINI_MODEL", DefaultGeminiModel),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionMaxAge: maxAge,

		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}, nil
}

// IsProduction reports whether the process runs with production settings.
// It drives the Secure flag on the session cookie.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// ValidateEnv validates that all required environment variables are set
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
