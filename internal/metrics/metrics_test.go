package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kozaktomas/facedesk/internal/training"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"persons", "persons"},
		{"person/4/name", "person/:id/name"},
		{"/image/123", "image/:id"},
		{"training-progress", "training-progress"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := normalizeEndpoint(tc.input); got != tc.expected {
				t.Errorf("normalizeEndpoint(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestObserveBackend(t *testing.T) {
	m := New()

	m.ObserveBackend(http.MethodDelete, "image/7", 200, 10*time.Millisecond)
	m.ObserveBackend(http.MethodDelete, "image/8", 200, 10*time.Millisecond)
	m.ObserveBackend(http.MethodGet, "persons", 0, time.Millisecond)

	if got := testutil.ToFloat64(m.backendRequests.WithLabelValues("DELETE", "image/:id", "200")); got != 2 {
		t.Errorf("expected 2 image deletions, got %v", got)
	}
	if got := testutil.ToFloat64(m.backendRequests.WithLabelValues("GET", "persons", "error")); got != 1 {
		t.Errorf("expected 1 failed request, got %v", got)
	}
}

func TestTrainingFinished(t *testing.T) {
	m := New()
	start := time.Now()

	m.TrainingFinished(training.Snapshot{State: training.StateCompleted, StartedAt: start, FinishedAt: start.Add(time.Minute)})
	m.TrainingFinished(training.Snapshot{State: training.StateFailed})

	if got := testutil.ToFloat64(m.trainingRuns.WithLabelValues("completed")); got != 1 {
		t.Errorf("expected 1 completed run, got %v", got)
	}
	if got := testutil.ToFloat64(m.trainingRuns.WithLabelValues("failed")); got != 1 {
		t.Errorf("expected 1 failed run, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New()
	m.UploadFiles(3, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `facedesk_upload_files_total{result="accepted"} 3`) {
		t.Errorf("expected accepted upload counter in output")
	}
	if !strings.Contains(body, `facedesk_upload_files_total{result="rejected"} 1`) {
		t.Errorf("expected rejected upload counter in output")
	}
}
