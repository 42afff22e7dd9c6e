// Package config loads server settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	StaticPath string
	LogLevel   string

	// SessionSecret signs session tokens. A random one is generated when empty,
	// which invalidates tokens on restart.
	SessionSecret string
	SessionTTL    time.Duration

	OCRSpaceKey string
	OCRSpaceURL string

	WorkersAIAccountID string
	WorkersAIAPIToken  string
	WorkersAIModel     string

	PipelineTimeout     time.Duration
	PipelineRetries     int
	ConfidenceThreshold float64
	MaxImageBytes       int64

	// RedisURL enables the shared parse cache. Empty means in-memory.
	RedisURL      string
	ParseCacheTTL time.Duration

	DefaultLocale string
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		StaticPath:         getEnv("STATIC_PATH", "./static"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		SessionSecret:      getEnv("SESSION_SECRET", ""),
		OCRSpaceKey:        getEnv("OCR_SPACE_KEY", ""),
		OCRSpaceURL:        getEnv("OCR_SPACE_URL", "https://api.ocr.space/parse/image"),
		WorkersAIAccountID: getEnv("WORKERS_AI_ACCOUNT_ID", ""),
		WorkersAIAPIToken:  getEnv("WORKERS_AI_API_TOKEN", ""),
		WorkersAIModel:     getEnv("WORKERS_AI_MODEL", "@cf/meta/llama-3.1-8b-instruct"),
		RedisURL:           getEnv("REDIS_URL", ""),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en-US"),
	}

	var err error
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PipelineTimeout, err = getDuration("PIPELINE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ParseCacheTTL, err = getDuration("PARSE_CACHE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.PipelineRetries, err = getInt("PIPELINE_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.PipelineRetries < 0 {
		return nil, fmt.Errorf("PIPELINE_RETRIES must not be negative, got %d", cfg.PipelineRetries)
	}
	if cfg.ConfidenceThreshold, err = getFloat("CONFIDENCE_THRESHOLD", 0.9); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return nil, fmt.Errorf("CONFIDENCE_THRESHOLD must be between 0 and 1, got %v", cfg.ConfidenceThreshold)
	}
	maxBytes, err := getInt("MAX_IMAGE_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("MAX_IMAGE_BYTES must be positive, got %d", maxBytes)
	}
	cfg.MaxImageBytes = int64(maxBytes)

	return cfg, nil
}

// Addr is the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := getEnv(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
