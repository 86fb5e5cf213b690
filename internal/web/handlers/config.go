package handlers

import (
	"net/http"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/constants"
	"github.com/kozaktomas/facedesk/internal/upload"
)

// ConfigHandler handles configuration endpoints
type ConfigHandler struct {
	config *config.Config
}

// NewConfigHandler creates a new config handler
func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{
		config: cfg,
	}
}

// ConfigResponse represents the client facing settings
type ConfigResponse struct {
	BackendURL       string   `json:"backend_url"`
	MaxUploadSize    int64    `json:"max_upload_size"`
	AcceptedTypes    []string `json:"accepted_types"`
	PreviewSize      int      `json:"preview_size"`
	PollIntervalMs   int64    `json:"poll_interval_ms"`
	AlertDismissMs   int64    `json:"alert_dismiss_ms"`
	MaxPersonNameLen int      `json:"max_person_name_length"`
}

// Get returns the settings the browser needs to validate input up front
func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, ConfigResponse{
		BackendURL:       h.config.Backend.URL,
		MaxUploadSize:    h.config.Upload.MaxSize,
		AcceptedTypes:    upload.AcceptedTypes(),
		PreviewSize:      h.config.Upload.PreviewSize,
		PollIntervalMs:   constants.PollInterval.Milliseconds(),
		AlertDismissMs:   constants.AlertAutoDismiss.Milliseconds(),
		MaxPersonNameLen: constants.MaxPersonNameLength,
	})
}
