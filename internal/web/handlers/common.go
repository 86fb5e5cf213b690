package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// sanitizeForLog removes newlines and carriage returns to prevent log injection.
func sanitizeForLog(s string) string {
	return strings.NewReplacer("\n", "", "\r", "").Replace(s)
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondBackendError maps a backend failure to a JSON error response.
func respondBackendError(w http.ResponseWriter, err error) {
	respondError(w, backendStatus(err), facerec.ErrorMessage(err))
}

// backendStatus is the status code forwarded for a backend failure.
func backendStatus(err error) int {
	var apiErr *facerec.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		return apiErr.StatusCode
	}
	return http.StatusBadGateway
}

// respondAlert renders an alert banner into the page alert area, whatever
// element issued the request. htmx only swaps 2xx responses, so alerts are
// always sent with 200.
func respondAlert(w http.ResponseWriter, renderer *templates.Renderer, alert view.Alert) {
	w.Header().Set("HX-Retarget", "#alerts")
	w.Header().Set("HX-Reswap", "afterbegin")
	renderer.Render(w, http.StatusOK, templates.Part{Name: "alert", Data: alert})
}

// alertPart renders an alert as an out-of-band swap next to the main fragment.
func alertPart(alert view.Alert) templates.Part {
	return templates.Part{Name: "alert_oob", Data: alert}
}

// parseIDParam reads a positive integer URL parameter.
func parseIDParam(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// imageSource maps a backend image path to a URL served through the uploads proxy.
func imageSource(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "data:") {
		return path
	}
	return "/" + strings.TrimLeft(path, "/")
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
