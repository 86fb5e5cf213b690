package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/constants"
	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/metrics"
	"github.com/kozaktomas/facedesk/internal/upload"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// Alert texts of the person endpoints.
const (
	msgEnterName    = "Please enter a name"
	msgSelectImages = "Please select at least one image"
	msgPersonAdded  = "Person added successfully!"
)

// personCreatedEvent is triggered on the client after a person was added.
const personCreatedEvent = "person-created"

// PersonsHandler handles the roster and person endpoints
type PersonsHandler struct {
	config   *config.Config
	renderer *templates.Renderer
	stage    *upload.Stage
	metrics  *metrics.Metrics
	stats    *StatsHandler
}

// NewPersonsHandler creates a new persons handler
func NewPersonsHandler(cfg *config.Config, renderer *templates.Renderer, stage *upload.Stage, m *metrics.Metrics, stats *StatsHandler) *PersonsHandler {
	return &PersonsHandler{
		config:   cfg,
		renderer: renderer,
		stage:    stage,
		metrics:  m,
		stats:    stats,
	}
}

// renderRoster loads the persons and renders the whole roster, followed by any extra parts.
func (h *PersonsHandler) renderRoster(w http.ResponseWriter, r *http.Request, client *facerec.Client, query string, extra ...templates.Part) {
	persons, err := client.GetPersons(r.Context())
	if err != nil {
		respondAlert(w, h.renderer, view.Failure("Error loading persons", err))
		return
	}

	parts := append([]templates.Part{{Name: "roster", Data: view.NewRoster(persons, query, imageSource)}}, extra...)
	h.renderer.Render(w, http.StatusOK, parts...)
}

// List renders the roster, optionally filtered by the q query parameter
func (h *PersonsHandler) List(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}
	h.renderRoster(w, r, client, r.URL.Query().Get("q"))
}

// nameProblem returns the alert text for an unusable name, or "".
func nameProblem(name string) string {
	switch {
	case name == "":
		return msgEnterName
	case utf8.RuneCountInString(name) > constants.MaxPersonNameLength:
		return fmt.Sprintf("Name must be at most %d characters", constants.MaxPersonNameLength)
	default:
		return ""
	}
}

// Create enrolls a new person from the staged batch (or directly posted
// files) and reloads the roster
func (h *PersonsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseUpload(w, r, h.config.Upload.MaxSize); err != nil {
		respondAlert(w, h.renderer, view.Danger("Failed to add person: "+err.Error()))
		return
	}

	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if msg := nameProblem(name); msg != "" {
		respondAlert(w, h.renderer, view.Danger(msg))
		return
	}

	// a staged batch is taken for the duration of the upload and put back
	// when the person could not be added, so the selection survives
	batch, staged := h.stage.Take(r.FormValue("batch"))
	if !staged {
		var err error
		batch, err = readBatch(r, filesField, h.config.Upload.PreviewSize)
		if err != nil {
			respondAlert(w, h.renderer, view.Danger("Failed to add person: "+err.Error()))
			return
		}
	}
	restore := func() {
		if staged {
			h.stage.Put(batch)
		}
	}
	if !batch.SubmitEnabled() {
		restore()
		respondAlert(w, h.renderer, view.Danger(msgSelectImages))
		return
	}

	if err := client.CreatePerson(r.Context(), name, batch.UploadFiles()); err != nil {
		restore()
		slog.Warn("failed to add person", "name", sanitizeForLog(name), "error", err)
		respondAlert(w, h.renderer, view.Failure("Failed to add person", err))
		return
	}
	h.stats.InvalidateCache()
	slog.Info("person added", "name", sanitizeForLog(name), "images", len(batch.Files), "bytes", batch.Size())

	w.Header().Set("HX-Trigger", personCreatedEvent)
	h.renderRoster(w, r, client, "",
		templates.Part{Name: "previews_oob", Data: PreviewsData{}},
		alertPart(view.Success(msgPersonAdded)),
	)
}

// NameDisplay renders the read-only name of a person. The name is taken from
// the query string, so cancelling an edit costs no backend request.
func (h *PersonsHandler) NameDisplay(w http.ResponseWriter, r *http.Request) {
	h.renderName(w, r, "person_name")
}

// NameEdit renders the inline name editor
func (h *PersonsHandler) NameEdit(w http.ResponseWriter, r *http.Request) {
	h.renderName(w, r, "person_name_edit")
}

func (h *PersonsHandler) renderName(w http.ResponseWriter, r *http.Request, tmpl string) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondAlert(w, h.renderer, view.Danger(err.Error()))
		return
	}
	card := view.PersonCard{ID: id, Name: r.URL.Query().Get("name")}
	h.renderer.Render(w, http.StatusOK, templates.Part{Name: tmpl, Data: card})
}

// Rename commits an inline name edit. An empty name restores the previous
// one without contacting the backend.
func (h *PersonsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondAlert(w, h.renderer, view.Danger(err.Error()))
		return
	}
	if err := r.ParseForm(); err != nil {
		respondAlert(w, h.renderer, view.Danger("Error updating name: invalid form"))
		return
	}

	name := strings.TrimSpace(r.PostFormValue("name"))
	previous := r.PostFormValue("previous")
	if name == "" {
		h.renderer.Render(w, http.StatusOK, templates.Part{Name: "person_name", Data: view.PersonCard{ID: id, Name: previous}})
		return
	}
	if msg := nameProblem(name); msg != "" {
		respondAlert(w, h.renderer, view.Danger("Error updating name: "+msg))
		return
	}

	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}
	if err := client.UpdatePersonName(r.Context(), id, name); err != nil {
		slog.Warn("failed to rename person", "id", id, "error", err)
		respondAlert(w, h.renderer, view.Failure("Error updating name", err))
		return
	}

	h.renderer.Render(w, http.StatusOK, templates.Part{Name: "person_name", Data: view.PersonCard{ID: id, Name: name}})
}

// AddImages uploads more reference images for a person and reloads the roster
func (h *PersonsHandler) AddImages(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondAlert(w, h.renderer, view.Danger(err.Error()))
		return
	}
	if err := parseUpload(w, r, h.config.Upload.MaxSize); err != nil {
		respondAlert(w, h.renderer, view.Danger("Error uploading images: "+err.Error()))
		return
	}

	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}

	batch, err := readBatch(r, filesField, h.config.Upload.PreviewSize)
	if err != nil {
		respondAlert(w, h.renderer, view.Danger("Error uploading images: "+err.Error()))
		return
	}
	h.metrics.UploadFiles(len(batch.Files), len(batch.Rejections))
	if !batch.SubmitEnabled() {
		msg := msgSelectImages
		if len(batch.Rejections) > 0 {
			msg = upload.RejectionMessage
		}
		respondAlert(w, h.renderer, view.Danger(msg))
		return
	}

	if err := client.AddPersonImages(r.Context(), id, batch.UploadFiles()); err != nil {
		slog.Warn("failed to add images", "id", id, "error", err)
		respondAlert(w, h.renderer, view.Failure("Error uploading images", err))
		return
	}
	h.stats.InvalidateCache()

	var extra []templates.Part
	for _, notice := range batch.Notices() {
		extra = append(extra, alertPart(view.Danger(notice)))
	}
	h.renderRoster(w, r, client, "", extra...)
}

// Delete removes a person. The client removes the card on an empty 200.
func (h *PersonsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondAlert(w, h.renderer, view.Danger(err.Error()))
		return
	}

	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}
	if err := client.DeletePerson(r.Context(), id); err != nil {
		slog.Warn("failed to delete person", "id", id, "error", err)
		respondAlert(w, h.renderer, view.Failure("Error deleting person", err))
		return
	}
	h.stats.InvalidateCache()
	w.WriteHeader(http.StatusOK)
}
