package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default values for Config.
const (
	DefaultBaseURL        = "http://localhost:8000"
	DefaultTimeoutSeconds = 30
	DefaultNickname       = "朋友"
	DefaultDBPath         = ".companion/calendar.db"
	DefaultLogLevel       = "warn"
)

// Environment variable overrides. These win over the config file so a
// token never has to live in plain yaml on disk.
const (
	EnvAPIToken = "COMPANION_API_TOKEN"
	EnvBaseURL  = "COMPANION_API_BASE_URL"
	EnvUserID   = "COMPANION_USER_ID"
)

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		User: UserConfig{
			Nickname: DefaultNickname,
		},
		Calendar: CalendarConfig{
			DBPath: DefaultDBPath,
		},
		LogLevel: DefaultLogLevel,
	}
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// LoadConfig reads and parses .companion/config.yaml from the given base
// path, then layers environment overrides on top (a .env file in the
// base path is honored). If the config file doesn't exist, returns
// default config. Applies defaults for any missing fields.
func LoadConfig(basePath string) (*Config, error) {
	configPath := filepath.Join(basePath, ".companion", "config.yaml")

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// Defaults plus environment.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	applyEnv(&cfg, basePath)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnv overlays environment variables onto cfg. godotenv never
// overwrites variables already set in the process environment.
func applyEnv(cfg *Config, basePath string) {
	_ = godotenv.Load(filepath.Join(basePath, ".env"))

	if v := os.Getenv(EnvAPIToken); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			cfg.User.ID = id
		}
	}
}

// ValidateConfig checks that all config values are valid.
func ValidateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return ValidationError{Field: "api.base_url", Message: "must not be empty"}
	}
	if cfg.API.TimeoutSeconds <= 0 {
		return ValidationError{Field: "api.timeout_seconds", Message: "must be positive"}
	}
	if cfg.User.ID < 0 {
		return ValidationError{Field: "user.id", Message: "must not be negative"}
	}
	if cfg.User.Nickname == "" {
		return ValidationError{Field: "user.nickname", Message: "must not be empty"}
	}
	if cfg.Calendar.DBPath == "" {
		return ValidationError{Field: "calendar.db_path", Message: "must not be empty"}
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ValidationError{Field: "log_level", Message: "must be one of debug, info, warn, error"}
	}
	return nil
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
