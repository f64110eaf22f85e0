package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration and reports every problem at once.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "must be set"}.Error())
	}
	if cfg.GeminiModel == "" {
		errs = append(errs, ValidationError{"GEMINI_MODEL", "must be set"}.Error())
	}
	if cfg.GeminiTemperature < 0 || cfg.GeminiTemperature > 2 {
		errs = append(errs, ValidationError{"GEMINI_TEMPERATURE", "must be between 0 and 2"}.Error())
	}
	if cfg.GeminiTimeout <= 0 {
		errs = append(errs, ValidationError{"GEMINI_TIMEOUT", "must be positive"}.Error())
	}
	if cfg.RateLimit <= 0 {
		errs = append(errs, ValidationError{"RATE_LIMIT", "must be positive"}.Error())
	}
	if cfg.RateLimitWindow < time.Second {
		errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW", "must be at least 1s"}.Error())
	}

	// Outside production the server starts without a key and reports it on every analysis.
	if cfg.Environment.IsProduction() && cfg.GeminiAPIKey == "" {
		errs = append(errs, ValidationError{"GEMINI_API_KEY", "is required in production"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
