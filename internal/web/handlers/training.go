package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/training"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// msgAlreadyTraining is shown when a second run is requested.
const msgAlreadyTraining = "Training is already in progress"

// TrainingHandler starts training runs and reports their progress
type TrainingHandler struct {
	config   *config.Config
	renderer *templates.Renderer
	monitor  *training.Monitor
	stats    *StatsHandler
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(cfg *config.Config, renderer *templates.Renderer, monitor *training.Monitor, stats *StatsHandler) *TrainingHandler {
	return &TrainingHandler{
		config:   cfg,
		renderer: renderer,
		monitor:  monitor,
		stats:    stats,
	}
}

// Start begins a training run and renders the progress panel, which keeps
// polling itself while the run is in progress
func (h *TrainingHandler) Start(w http.ResponseWriter, r *http.Request) {
	err := h.monitor.Start(r.Context())
	progress := view.NewProgressView(h.monitor.Snapshot())

	switch {
	case errors.Is(err, training.ErrAlreadyRunning):
		h.renderer.Render(w, http.StatusOK,
			templates.Part{Name: "progress", Data: progress},
			alertPart(view.Danger(msgAlreadyTraining)),
		)
	case err != nil:
		slog.Warn("failed to start training", "error", err)
		parts := []templates.Part{{Name: "progress", Data: progress}}
		if alert, ok := progress.Alert(); ok {
			parts = append(parts, alertPart(alert))
		}
		h.renderer.Render(w, http.StatusOK, parts...)
	default:
		h.renderer.Render(w, http.StatusOK, templates.Part{Name: "progress", Data: progress})
	}
}

// Progress renders the progress panel. When the run the client was polling
// (query parameter run) has ended, the terminal banner and the refreshed
// statistics are swapped in once; the returned panel no longer polls.
func (h *TrainingHandler) Progress(w http.ResponseWriter, r *http.Request) {
	snap := h.monitor.Snapshot()
	progress := view.NewProgressView(snap)
	parts := []templates.Part{{Name: "progress", Data: progress}}

	polled := r.URL.Query().Get("run")
	if polled != "" && polled == snap.RunID && snap.Terminal() {
		if alert, ok := progress.Alert(); ok {
			parts = append(parts, alertPart(alert))
		}
		if snap.State == training.StateCompleted {
			parts = append(parts, templates.Part{Name: "stats_oob", Data: progress.Stats})
			if client := middleware.GetBackendFromContext(r.Context()); client != nil {
				if history, err := client.TrainingHistory(r.Context()); err == nil {
					parts = append(parts, templates.Part{Name: "history_oob", Data: view.NewHistoryView(history)})
				}
			}
		}
	}

	h.renderer.Render(w, http.StatusOK, parts...)
}

// Status returns the monitor snapshot as JSON
func (h *TrainingHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.monitor.Snapshot())
}

// Events streams monitor events as server-sent events
func (h *TrainingHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, unsubscribe := h.monitor.Subscribe()
	defer unsubscribe()

	streamSSEEvents(w, r, events, h.monitor.Snapshot())
}

// RecordFinished is registered with the monitor: it stores the statistics
// fetched at the end of a run so the stats panel does not refetch them.
func (h *TrainingHandler) RecordFinished(s training.Snapshot) {
	if s.State == training.StateCompleted && s.Stats != nil && s.StatsError == "" {
		h.stats.Store(s.Stats)
		return
	}
	h.stats.InvalidateCache()
}
