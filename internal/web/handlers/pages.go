package handlers

import (
	"net/http"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/training"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// PageData is the model of the full page.
type PageData struct {
	Roster        view.RosterView
	Previews      PreviewsData
	Progress      view.ProgressView
	Stats         view.StatsView
	History       view.HistoryView
	Alerts        []view.Alert
	MaxUploadSize int64
}

// PagesHandler serves full HTML pages
type PagesHandler struct {
	config   *config.Config
	renderer *templates.Renderer
	monitor  *training.Monitor
	stats    *StatsHandler
}

// NewPagesHandler creates a new pages handler
func NewPagesHandler(cfg *config.Config, renderer *templates.Renderer, monitor *training.Monitor, stats *StatsHandler) *PagesHandler {
	return &PagesHandler{
		config:   cfg,
		renderer: renderer,
		monitor:  monitor,
		stats:    stats,
	}
}

// Index renders the application page. A failing roster load still renders
// the page with an empty roster and an error banner.
func (h *PagesHandler) Index(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}

	query := r.URL.Query().Get("q")
	data := PageData{
		Progress:      view.NewProgressView(h.monitor.Snapshot()),
		MaxUploadSize: h.config.Upload.MaxSize,
	}
	data.Stats, data.History = h.stats.views(r.Context(), client)

	persons, err := client.GetPersons(r.Context())
	if err != nil {
		data.Alerts = append(data.Alerts, view.Failure("Error loading persons", err))
	}
	data.Roster = view.NewRoster(persons, query, imageSource)

	h.renderer.Render(w, http.StatusOK, templates.Part{Name: "index.html", Data: data})
}
