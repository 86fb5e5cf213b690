package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/facedesk/internal/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Web     WebConfig     `yaml:"web"`
	Upload  UploadConfig  `yaml:"upload"`
	Log     LogConfig     `yaml:"log"`
}

type BackendConfig struct {
	URL        string        `yaml:"url"`
	Timeout    time.Duration `yaml:"timeout"`     // zero disables the client timeout
	CaptureDir string        `yaml:"capture_dir"` // directory to dump raw API responses into (optional)
}

// ImageLink returns an OSC 8 hyperlink for terminal emulators (iTerm2, etc.)
// Displays the given label but makes it clickable to open the backend image.
// Returns the label unchanged if URL is not set or path is empty.
func (c *BackendConfig) ImageLink(path, label string) string {
	if c.URL == "" || path == "" {
		return label
	}
	url := strings.TrimRight(c.URL, "/") + "/" + strings.TrimLeft(path, "/")
	// OSC 8 hyperlink format: \e]8;;URL\e\\TEXT\e]8;;\e\\
	return "\x1b]8;;" + url + "\x1b\\" + label + "\x1b]8;;\x1b\\"
}

type WebConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type UploadConfig struct {
	MaxSize     int64         `yaml:"max_size"`     // bytes per multipart request
	PreviewSize int           `yaml:"preview_size"` // max thumbnail edge in pixels
	StageTTL    time.Duration `yaml:"stage_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envDuration reads an environment variable as a time.Duration (e.g. "30s").
// Negative, unset or invalid values yield the default.
func envDuration(key string, defaultVal time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(s); err == nil && d >= 0 {
		return d
	}
	return defaultVal
}

// envString returns the env var value or the default when unset.
func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envList splits a comma-separated env var, dropping empty entries.
func envList(key string, defaultVal []string) []string {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	var out []string
	for item := range strings.SplitSeq(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Backend: BackendConfig{
			URL: constants.DefaultBackendURL,
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Upload: UploadConfig{
			MaxSize:     constants.MaxUploadSize,
			PreviewSize: constants.DefaultPreviewSize,
			StageTTL:    constants.DefaultStageTTL,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults and environment variables.
func Load() *Config {
	return applyEnv(Defaults())
}

// LoadWithFile reads a YAML file on top of the defaults and then applies
// environment variables, so env always wins over the file.
func LoadWithFile(path string) (*Config, error) {
	if path == "" {
		return Load(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg *Config) *Config {
	cfg.Backend.URL = strings.TrimRight(envString("FACEREC_URL", cfg.Backend.URL), "/")
	cfg.Backend.Timeout = envDuration("FACEREC_TIMEOUT", cfg.Backend.Timeout)
	cfg.Backend.CaptureDir = envString("FACEREC_CAPTURE_DIR", cfg.Backend.CaptureDir)

	cfg.Web.Host = envString("WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = envInt("WEB_PORT", cfg.Web.Port)
	cfg.Web.AllowedOrigins = envList("WEB_ALLOWED_ORIGINS", cfg.Web.AllowedOrigins)

	cfg.Upload.MaxSize = int64(envInt("UPLOAD_MAX_SIZE", int(cfg.Upload.MaxSize)))
	cfg.Upload.PreviewSize = envInt("PREVIEW_SIZE", cfg.Upload.PreviewSize)
	cfg.Upload.StageTTL = envDuration("UPLOAD_STAGE_TTL", cfg.Upload.StageTTL)

	cfg.Log.Level = envString("LOG_LEVEL", cfg.Log.Level)
	return cfg
}
