package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Expected default host 0.0.0.0, got %q", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %q", cfg.Port)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected default request timeout 30s, got %s", cfg.RequestTimeout)
	}
	if cfg.OCRLanguages != "eng" {
		t.Errorf("Expected default OCR language eng, got %q", cfg.OCRLanguages)
	}
	if cfg.ArtifactUploadEnabled() {
		t.Error("Expected artifact upload disabled without Azure credentials")
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "45s")
	t.Setenv("LEXICON_PATH", "/etc/creative/lexicon.toml")
	t.Setenv("OCR_LANGUAGES", "eng+deu")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Host != "127.0.0.1" || cfg.Port != "9090" {
		t.Errorf("Expected overridden host/port, got %q:%q", cfg.Host, cfg.Port)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Errorf("Expected 45s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.LexiconPath != "/etc/creative/lexicon.toml" {
		t.Errorf("Unexpected lexicon path %q", cfg.LexiconPath)
	}
	if cfg.OCRLanguages != "eng+deu" {
		t.Errorf("Unexpected OCR languages %q", cfg.OCRLanguages)
	}
	if cfg.ServerAddress() != "127.0.0.1:9090" {
		t.Errorf("Unexpected server address %q", cfg.ServerAddress())
	}
}

func TestLoadFromEnv_InvalidPort(t *testing.T) {
	tests := []string{"0", "65536", "-1", "http"}
	for _, port := range tests {
		t.Run(port, func(t *testing.T) {
			t.Setenv("PORT", port)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("Expected error for port %q", port)
			}
		})
	}
}

func TestLoadFromEnv_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "not-a-duration")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("Expected fallback to default timeout, got %s", cfg.RequestTimeout)
	}
}

func TestLoadFromEnv_InvalidBodySize(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_SIZE", "-5")
	if _, err := LoadFromEnv(); err == nil {
		t.Error("Expected error for negative body size")
	}
}

func TestArtifactUploadEnabled(t *testing.T) {
	cfg := &Config{AzureAccountName: "acct", AzureAccountKey: "key", ArtifactContainer: "creatives"}
	if !cfg.ArtifactUploadEnabled() {
		t.Error("Expected artifact upload enabled with full credentials")
	}

	cfg.ArtifactContainer = ""
	if cfg.ArtifactUploadEnabled() {
		t.Error("Expected artifact upload disabled without a container")
	}
}
