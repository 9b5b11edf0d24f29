package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tradeJournal/internal/adapters/logger" // Import the logger package for LogLevel
	"tradeJournal/internal/ports"
)

const minJWTSecretLength = 16

// Config holds all application configuration.
type Config struct {
	// Database
	DBPath string

	// Logging
	LogLevel       logger.LogLevel
	LogFormat      string // "plain" or "pretty"
	TracingEnabled bool   // Print OpenTelemetry spans to stderr

	// HTTP transport
	HTTPAddr        string
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration

	// Auth collaborator
	JWTSecret string
	TokenTTL  time.Duration
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	return load(true)
}

// LoadLocalConfig loads the same settings for local tooling that never
// verifies bearer tokens, so JWT_SECRET may be left unset.
func LoadLocalConfig() (*Config, error) {
	return load(false)
}

func load(requireSecret bool) (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/journal.db")

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "plain"))
	if cfg.LogFormat != "plain" && cfg.LogFormat != "pretty" {
		errs = append(errs, "LOG_FORMAT must be 'plain' or 'pretty'")
	}

	cfg.TracingEnabled, err = getEnvAsBool("TRACING_ENABLED", false)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TRACING_ENABLED: %v", err))
	}

	// HTTP transport
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.MaxUploadBytes, err = getEnvAsInt64Required("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_UPLOAD_BYTES: %v", err))
	} else if cfg.MaxUploadBytes <= 0 {
		errs = append(errs, "MAX_UPLOAD_BYTES must be positive")
	}

	shutdownSeconds := getEnvAsInt("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if shutdownSeconds <= 0 {
		errs = append(errs, "SHUTDOWN_TIMEOUT_SECONDS must be positive")
	}
	cfg.ShutdownTimeout = time.Duration(shutdownSeconds) * time.Second

	// Auth
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	if requireSecret && len(cfg.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Sprintf("JWT_SECRET must be set (at least %d characters)", minJWTSecretLength))
	}

	ttlHours, err := getEnvAsIntRequired("TOKEN_TTL_HOURS", 24)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TOKEN_TTL_HOURS: %v", err))
	} else if ttlHours <= 0 {
		errs = append(errs, "TOKEN_TTL_HOURS must be positive")
	}
	cfg.TokenTTL = time.Duration(ttlHours) * time.Hour

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ports.ErrConfigurationError, strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Set but invalid is an error, unset falls back to the default.
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsInt64Required(key string, defaultValue int64) (int64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return false, fmt.Errorf("invalid boolean value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}
