package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultServerPort    = "8080"
	defaultGeminiModel   = "gemini-2.5-flash"
	defaultTemperature   = 0.7
	defaultGeminiTimeout = 60 * time.Second
	defaultRateLimit     = 20
	defaultRateWindow    = time.Minute
	defaultSecretsDir    = "/run/secrets"
	apiKeySecretName     = "gemini_api_key"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost  string
	ServerPort  string
	CORSOrigins []string

	// Gemini configuration
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GeminiTemperature float32
	GeminiTimeout     time.Duration

	// Rate limiting. An empty RedisURL selects the in-process limiter.
	RedisURL        string
	RateLimit       int
	RateLimitWindow time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.ServerHost, c.ServerPort)
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	loadDotEnv()

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv reads the configuration from the process environment without validating it.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Environment:   GetEnvironment(),
		ServerHost:    os.Getenv("SERVER_HOST"),
		ServerPort:    getEnv("SERVER_PORT", defaultServerPort),
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
		GeminiModel:   getEnv("GEMINI_MODEL", defaultGeminiModel),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}

	apiKey, err := loadAPIKey()
	if err != nil {
		return nil, err
	}
	cfg.GeminiAPIKey = apiKey

	temp, err := parseFloat("GEMINI_TEMPERATURE", defaultTemperature)
	if err != nil {
		return nil, err
	}
	cfg.GeminiTemperature = float32(temp)

	if cfg.GeminiTimeout, err = parseDuration("GEMINI_TIMEOUT", defaultGeminiTimeout); err != nil {
		return nil, err
	}
	if cfg.RateLimit, err = parseInt("RATE_LIMIT", defaultRateLimit); err != nil {
		return nil, err
	}
	if cfg.RateLimitWindow, err = parseDuration("RATE_LIMIT_WINDOW", defaultRateWindow); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadAPIKey resolves the Gemini key from GEMINI_API_KEY, GEMINI_API_KEY_FILE or the
// gemini_api_key secret, in that order. A missing key is not an error here.
func loadAPIKey() (string, error) {
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		return key, nil
	}

	if keyFile := os.Getenv("GEMINI_API_KEY_FILE"); keyFile != "" {
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return "", fmt.Errorf("failed to read API key file: %w", err)
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			return "", fmt.Errorf("API key file is empty")
		}
		return key, nil
	}

	return readSecret(apiKeySecretName), nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = defaultSecretsDir
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// loadDotEnv loads a .env file from the working directory when one exists.
func loadDotEnv() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
