package facerec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidResponse is wrapped by every error caused by an undecodable response body
var ErrInvalidResponse = errors.New("invalid response from server")

// APIError is returned when the backend answers with an unexpected status code.
// Message carries the raw server text, or the "error" field of a JSON body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Observer is notified after every backend request.
// Status is zero when the request never got a response.
type Observer func(method, endpoint string, status int, elapsed time.Duration)

// Client represents a client for the face recognition backend API
type Client struct {
	URL        string
	parsedURL  *url.URL
	httpClient *http.Client
	captureDir string
	observer   Observer
}

// NewClient creates a new backend client.
// A zero timeout means requests never time out on their own.
func NewClient(rawURL string, timeout time.Duration) (*Client, error) {
	trimmed := strings.TrimRight(rawURL, "/")
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", rawURL)
	}
	return &Client{
		URL:        trimmed,
		parsedURL:  parsed,
		httpClient: &http.Client{
			Timeout: timeout,
			// POST /person answers with a redirect to the backend's own page
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

// NewClientWithCapture creates a new backend client with optional response capturing.
// Pass an empty captureDir to disable capturing.
func NewClientWithCapture(rawURL string, timeout time.Duration, captureDir string) (*Client, error) {
	c, err := NewClient(rawURL, timeout)
	if err != nil {
		return nil, err
	}
	if err := c.SetCaptureDir(captureDir); err != nil {
		return nil, err
	}
	return c, nil
}

// SetObserver installs a hook called after every request (used for metrics).
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// resolveURL builds a full URL from the base URL and the given path segments.
// If the last segment contains a query string (e.g. "persons?x=1"), it is
// split so JoinPath only receives the path portion and the query is appended.
func (c *Client) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return c.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := c.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return c.parsedURL.JoinPath(pathSegments...).String()
}

// readErrorMessage reads the response body for error messages.
// JSON bodies of the form {"error": "..."} are unwrapped, anything else is returned verbatim.
func readErrorMessage(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return strings.TrimSpace(string(body))
}

// SetCaptureDir enables API response capturing to the specified directory.
// Pass an empty string to disable capturing.
func (c *Client) SetCaptureDir(dir string) error {
	if dir == "" {
		c.captureDir = ""
		return nil
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("could not create capture directory: %w", err)
	}
	c.captureDir = dir
	return nil
}

// captureResponse saves the API response body to a file if capturing is enabled.
func (c *Client) captureResponse(endpoint string, body []byte) {
	if c.captureDir == "" {
		return
	}

	filename := strings.NewReplacer("/", "_", "?", "_", "&", "_", "=", "-").Replace(endpoint)
	filename = strings.TrimPrefix(filename, "_")
	timestamp := time.Now().Format("20060102_150405")
	filename = fmt.Sprintf("%s_%s.json", filename, timestamp)

	path := filepath.Join(c.captureDir, filename)

	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, body, "", "  "); err == nil {
		body = prettyJSON.Bytes()
	}

	if err := os.WriteFile(path, body, 0600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to capture response to %s: %v\n", path, err)
	}
}

// observe reports a finished request to the observer, if any.
func (c *Client) observe(method, endpoint string, status int, started time.Time) {
	if c.observer == nil {
		return
	}
	if pathPart, _, ok := strings.Cut(endpoint, "?"); ok {
		endpoint = pathPart
	}
	c.observer(method, endpoint, status, time.Since(started))
}
