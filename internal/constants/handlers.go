// Package constants provides shared constants used across the codebase.
package constants

import "time"

// Event channel constants
const (
	// EventChannelBuffer is the buffer size for event channels
	EventChannelBuffer = 100
)

// Stats cache constants
const (
	// StatsCacheTTL is how long model statistics are served from cache
	StatsCacheTTL = 10 * time.Second
)

// Alert constants
const (
	// AlertAutoDismiss is how long an alert banner stays visible in the browser
	AlertAutoDismiss = 5 * time.Second
)
