package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestImageLink_EmptyURL(t *testing.T) {
	cfg := BackendConfig{
		URL: "",
	}

	result := cfg.ImageLink("/uploads/a.jpg", "a.jpg")

	if result != "a.jpg" {
		t.Errorf("expected plain label for empty URL, got '%s'", result)
	}
}

func TestImageLink_EmptyPath(t *testing.T) {
	cfg := BackendConfig{
		URL: "http://faces.local:5000",
	}

	if result := cfg.ImageLink("", "label"); result != "label" {
		t.Errorf("expected plain label for empty path, got '%s'", result)
	}
}

func TestImageLink_CorrectFormat(t *testing.T) {
	cfg := BackendConfig{
		URL: "http://faces.local:5000/",
	}

	result := cfg.ImageLink("/uploads/faceimages/jan.jpg", "jan.jpg")

	startSeq := "\x1b]8;;"
	if !strings.HasPrefix(result, startSeq) {
		t.Error("expected result to start with OSC 8 sequence '\\x1b]8;;'")
	}

	endSeq := "\x1b]8;;\x1b\\"
	if !strings.HasSuffix(result, endSeq) {
		t.Error("expected result to end with OSC 8 close sequence")
	}

	expectedURL := "http://faces.local:5000/uploads/faceimages/jan.jpg"
	if !strings.Contains(result, expectedURL) {
		t.Errorf("expected result to contain URL %q, got %q", expectedURL, result)
	}

	if !strings.Contains(result, "\x1b\\jan.jpg\x1b]8;;") {
		t.Errorf("expected visible label between escape sequences, got %q", result)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"FACEREC_URL", "FACEREC_TIMEOUT", "WEB_HOST", "WEB_PORT", "LOG_LEVEL",
		"UPLOAD_MAX_SIZE", "PREVIEW_SIZE", "UPLOAD_STAGE_TTL", "WEB_ALLOWED_ORIGINS"} {
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.Backend.URL != "http://localhost:5000" {
		t.Errorf("expected default backend URL, got '%s'", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 0 {
		t.Errorf("expected no client timeout by default, got %v", cfg.Backend.Timeout)
	}
	if cfg.Web.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Web.Port)
	}
	if cfg.Web.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got '%s'", cfg.Web.Host)
	}
	if cfg.Upload.MaxSize != 16<<20 {
		t.Errorf("expected 16MB upload limit, got %d", cfg.Upload.MaxSize)
	}
	if cfg.Upload.PreviewSize != 256 {
		t.Errorf("expected preview size 256, got %d", cfg.Upload.PreviewSize)
	}
	if cfg.Upload.StageTTL != time.Hour {
		t.Errorf("expected stage TTL 1h, got %v", cfg.Upload.StageTTL)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level info, got '%s'", cfg.Log.Level)
	}
}

func TestLoad_BackendConfig(t *testing.T) {
	t.Setenv("FACEREC_URL", "https://faces.test.com/")
	t.Setenv("FACEREC_TIMEOUT", "45s")
	t.Setenv("FACEREC_CAPTURE_DIR", "/tmp/capture")

	cfg := Load()

	if cfg.Backend.URL != "https://faces.test.com" {
		t.Errorf("expected trailing slash to be trimmed, got '%s'", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 45*time.Second {
		t.Errorf("expected timeout 45s, got %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.CaptureDir != "/tmp/capture" {
		t.Errorf("expected capture dir '/tmp/capture', got '%s'", cfg.Backend.CaptureDir)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		check func(*Config) bool
	}{
		{"non-numeric port", "WEB_PORT", "abc", func(c *Config) bool { return c.Web.Port == 8080 }},
		{"negative port", "WEB_PORT", "-1", func(c *Config) bool { return c.Web.Port == 8080 }},
		{"zero preview size", "PREVIEW_SIZE", "0", func(c *Config) bool { return c.Upload.PreviewSize == 256 }},
		{"invalid timeout", "FACEREC_TIMEOUT", "soon", func(c *Config) bool { return c.Backend.Timeout == 0 }},
		{"negative TTL", "UPLOAD_STAGE_TTL", "-5m", func(c *Config) bool { return c.Upload.StageTTL == time.Hour }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if !tc.check(Load()) {
				t.Errorf("expected default for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("WEB_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg := Load()

	if len(cfg.Web.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.Web.AllowedOrigins)
	}
	if cfg.Web.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected second origin '%s'", cfg.Web.AllowedOrigins[1])
	}
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facedesk.yaml")
	content := `backend:
  url: http://file-backend:5000
  timeout: 10s
web:
  port: 9090
upload:
  preview_size: 128
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	os.Unsetenv("FACEREC_URL")
	os.Unsetenv("PREVIEW_SIZE")
	os.Unsetenv("FACEREC_TIMEOUT")
	os.Unsetenv("LOG_LEVEL")
	t.Setenv("WEB_PORT", "7070")

	cfg, err := LoadWithFile(path)
	if err != nil {
		t.Fatalf("LoadWithFile failed: %v", err)
	}

	if cfg.Backend.URL != "http://file-backend:5000" {
		t.Errorf("expected backend URL from file, got '%s'", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("expected timeout from file, got %v", cfg.Backend.Timeout)
	}
	if cfg.Web.Port != 7070 {
		t.Errorf("expected env port to win, got %d", cfg.Web.Port)
	}
	if cfg.Upload.PreviewSize != 128 {
		t.Errorf("expected preview size from file, got %d", cfg.Upload.PreviewSize)
	}
	if cfg.Upload.MaxSize != 16<<20 {
		t.Errorf("expected default max size to survive, got %d", cfg.Upload.MaxSize)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level from file, got '%s'", cfg.Log.Level)
	}
}

func TestLoadWithFile_MissingFile(t *testing.T) {
	_, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadWithFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("backend: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := LoadWithFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadWithFile_EmptyPath(t *testing.T) {
	os.Unsetenv("FACEREC_URL")

	cfg, err := LoadWithFile("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend.URL != "http://localhost:5000" {
		t.Errorf("expected defaults, got '%s'", cfg.Backend.URL)
	}
}
