package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/constants"
	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/metrics"
	"github.com/kozaktomas/facedesk/internal/upload"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

const personsJSON = `[
	{"id": 1, "name": "Jan Novák", "created_at": "2024-03-01", "images": [
		{"id": 11, "path": "/uploads/faceimages/jan1.jpg"},
		{"id": 12, "path": "/uploads/faceimages/jan2.jpg"}
	]},
	{"id": 2, "name": "Eva Dvořáková", "created_at": "2024-03-02", "images": [
		{"id": 21, "path": "/uploads/faceimages/eva.jpg"}
	]}
]`

const modelStatsJSON = `{"last_trained": "2024-03-05T10:20:30", "accuracy": 0.9234, "total_images": 3, "total_persons": 2}`

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Backend: config.BackendConfig{URL: "http://localhost:5000"},
		Upload: config.UploadConfig{
			MaxSize:     constants.MaxUploadSize,
			PreviewSize: 32,
			StageTTL:    time.Hour,
		},
	}
}

// testRenderer parses the embedded templates
func testRenderer(t *testing.T) *templates.Renderer {
	t.Helper()
	r, err := templates.New()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}
	return r
}

// mockBackend is a face recognition backend that counts requests per route
type mockBackend struct {
	*httptest.Server
	mu     sync.Mutex
	counts map[string]int
}

// Count returns how many requests hit "METHOD /path".
func (m *mockBackend) Count(route string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[route]
}

// Total returns the number of requests received.
func (m *mockBackend) Total() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.counts {
		total += n
	}
	return total
}

// setupMockBackend creates a mock backend server for handler tests.
// Handler patterns use the net/http "METHOD /path" syntax.
func setupMockBackend(t *testing.T, handlers map[string]http.HandlerFunc) *mockBackend {
	t.Helper()

	m := &mockBackend{counts: make(map[string]int)}
	mux := http.NewServeMux()
	for pattern, handler := range handlers {
		mux.HandleFunc(pattern, handler)
	}

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.counts[r.Method+" "+r.URL.Path]++
		m.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(m.Close)
	return m
}

// jsonReply returns a handler writing a fixed JSON body
func jsonReply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}
}

// createBackendClient creates a client connected to a mock server
func createBackendClient(t *testing.T, server *mockBackend) *facerec.Client {
	t.Helper()
	client, err := facerec.NewClient(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("failed to create backend client: %v", err)
	}
	return client
}

// requestWithBackend creates a request with the backend client in context
func requestWithBackend(t *testing.T, method, path string, body io.Reader, client *facerec.Client) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("HX-Request", "true")
	ctx := middleware.SetBackendInContext(req.Context(), client)
	return req.WithContext(ctx)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testFile is one part of a multipart test request
type testFile struct {
	field       string
	name        string
	contentType string
	data        []byte
}

// multipartBody encodes form fields and files
func multipartBody(t *testing.T, fields map[string]string, files ...testFile) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("failed to write field: %v", err)
		}
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		part.Write(f.data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

// multipartRequest builds an htmx multipart request with the backend client in context
func multipartRequest(t *testing.T, method, path string, client *facerec.Client, fields map[string]string, files ...testFile) *http.Request {
	t.Helper()
	body, contentType := multipartBody(t, fields, files...)
	req := requestWithBackend(t, method, path, body, client)
	req.Header.Set("Content-Type", contentType)
	return req
}

// pngBytes encodes a small solid PNG image
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := range 40 {
		for y := range 30 {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// newTestStage returns an empty staging area
func newTestStage() *upload.Stage {
	return upload.NewStage(time.Hour)
}

// newTestMetrics returns a fresh metrics registry
func newTestMetrics() *metrics.Metrics {
	return metrics.New()
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}

// assertBodyContains checks that the response body contains every fragment
func assertBodyContains(t *testing.T, recorder *httptest.ResponseRecorder, fragments ...string) {
	t.Helper()
	body := recorder.Body.String()
	for _, f := range fragments {
		if !strings.Contains(body, f) {
			t.Errorf("expected body to contain %q\nBody: %s", f, body)
		}
	}
}

// assertAlert checks that the response is an alert banner retargeted to the alert area
func assertAlert(t *testing.T, recorder *httptest.ResponseRecorder, class, message string) {
	t.Helper()
	assertStatusCode(t, recorder, http.StatusOK)
	if got := recorder.Header().Get("HX-Retarget"); got != "#alerts" {
		t.Errorf("expected HX-Retarget '#alerts', got '%s'", got)
	}
	if got := recorder.Header().Get("HX-Reswap"); got != "afterbegin" {
		t.Errorf("expected HX-Reswap 'afterbegin', got '%s'", got)
	}
	assertBodyContains(t, recorder, "alert-"+class, message)
}

var batchInputRe = regexp.MustCompile(`name="batch" value="([^"]+)"`)

// stagedBatchID extracts the batch id from a rendered previews fragment
func stagedBatchID(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	m := batchInputRe.FindStringSubmatch(recorder.Body.String())
	if m == nil {
		t.Fatalf("no batch id in previews\nBody: %s", recorder.Body.String())
	}
	return m[1]
}
