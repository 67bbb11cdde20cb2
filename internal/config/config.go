package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration, loaded once from the environment and
// passed explicitly to components so tests can substitute fixtures without
// process-wide side effects.
type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	AssetFetchTimeout  time.Duration
	PipelineTimeout    time.Duration
	MaxRequestBodySize int64

	// LexiconPath points at an optional TOML claim lexicon; empty keeps the
	// built-in default.
	LexiconPath string
	// FontPath overrides the typeface used for composition; empty tries a
	// system Arial and falls back to the embedded fonts.
	FontPath string
	// OCRLanguages holds the Tesseract language codes.
	OCRLanguages string

	// Optional Azure artifact upload. Disabled unless all three are set.
	AzureAccountName  string
	AzureAccountKey   string
	ArtifactContainer string
}

// ServerAddress joins host and port for the HTTP listener.
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

// ArtifactUploadEnabled reports whether exported creatives should also be
// pushed to blob storage.
func (c *Config) ArtifactUploadEnabled() bool {
	return c.AzureAccountName != "" && c.AzureAccountKey != "" && c.ArtifactContainer != ""
}

// LoadFromEnv reads configuration from the environment with validated
// defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		AssetFetchTimeout:  parseDurationOrDefault("ASSET_FETCH_TIMEOUT", 15*time.Second),
		PipelineTimeout:    parseDurationOrDefault("PIPELINE_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024),
		LexiconPath:        os.Getenv("LEXICON_PATH"),
		FontPath:           os.Getenv("FONT_PATH"),
		OCRLanguages:       getEnvOrDefault("OCR_LANGUAGES", "eng"),
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
		ArtifactContainer:  os.Getenv("ARTIFACT_CONTAINER"),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.RequestTimeout <= 0 || cfg.AssetFetchTimeout <= 0 || cfg.PipelineTimeout <= 0 {
		return nil, fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, pipeline=%s)",
			cfg.RequestTimeout, cfg.AssetFetchTimeout, cfg.PipelineTimeout)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
