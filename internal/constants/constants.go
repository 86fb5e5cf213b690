// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

import "time"

// Training monitor constants
const (
	// PollInterval is the fixed delay between two training progress requests
	PollInterval = 1000 * time.Millisecond

	// ProgressComplete is the progress value reported by a finished training run
	ProgressComplete = 100
)

// Upload constants
const (
	// MaxUploadSize is the maximum size of a multipart request in bytes (16MB)
	MaxUploadSize = 16 << 20

	// DefaultPreviewSize is the default maximum edge of a preview thumbnail in pixels
	DefaultPreviewSize = 256

	// DefaultStageTTL is how long staged uploads are kept before they are discarded
	DefaultStageTTL = time.Hour

	// MaxPersonNameLength mirrors the backend column size for person names
	MaxPersonNameLength = 100
)

// Backend constants
const (
	// DefaultBackendURL is used when FACEREC_URL is not set
	DefaultBackendURL = "http://localhost:5000"
)
