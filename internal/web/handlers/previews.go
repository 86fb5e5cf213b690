package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/metrics"
	"github.com/kozaktomas/facedesk/internal/upload"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// filesField is the multipart field carrying image files.
const filesField = "files[]"

// PreviewsData is the model of the preview list under the add person form.
type PreviewsData struct {
	BatchID       string
	Files         []PreviewFile
	Notices       []string
	SubmitEnabled bool
}

// PreviewFile is one accepted file with its thumbnail.
type PreviewFile struct {
	ID      string
	Name    string
	Preview template.URL // data URL generated from a validated image
}

func newPreviewsData(b *upload.Batch) PreviewsData {
	if b == nil {
		return PreviewsData{}
	}
	data := PreviewsData{
		BatchID:       b.ID,
		Files:         make([]PreviewFile, 0, len(b.Files)),
		Notices:       b.Notices(),
		SubmitEnabled: b.SubmitEnabled(),
	}
	for _, f := range b.Files {
		data.Files = append(data.Files, PreviewFile{ID: f.ID, Name: f.Name, Preview: template.URL(f.Preview)}) //nolint:gosec // generated by upload.PreviewURL
	}
	return data
}

// parseUpload parses a multipart request limited to the configured size.
func parseUpload(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("upload exceeds the %d MB limit", maxSize>>20)
		}
		return errors.New("failed to parse multipart form")
	}
	return nil
}

// readBatch validates the files of a multipart field into a new batch.
func readBatch(r *http.Request, field string, previewSize int) (*upload.Batch, error) {
	batch := upload.NewBatch(previewSize)
	if r.MultipartForm == nil {
		return batch, nil
	}
	for _, fh := range r.MultipartForm.File[field] {
		if err := batch.AddFileHeader(fh); err != nil {
			return nil, err
		}
	}
	return batch, nil
}

// PreviewsHandler stages selected files and renders their previews.
type PreviewsHandler struct {
	config   *config.Config
	renderer *templates.Renderer
	stage    *upload.Stage
	metrics  *metrics.Metrics
}

// NewPreviewsHandler creates a new previews handler.
func NewPreviewsHandler(cfg *config.Config, renderer *templates.Renderer, stage *upload.Stage, m *metrics.Metrics) *PreviewsHandler {
	return &PreviewsHandler{
		config:   cfg,
		renderer: renderer,
		stage:    stage,
		metrics:  m,
	}
}

// Stage validates the selected files, keeps the accepted ones and renders
// one preview per accepted file plus one notice per rejected file.
// A new selection replaces the previous batch.
func (h *PreviewsHandler) Stage(w http.ResponseWriter, r *http.Request) {
	if err := parseUpload(w, r, h.config.Upload.MaxSize); err != nil {
		respondAlert(w, h.renderer, view.Danger(err.Error()))
		return
	}

	if previous := r.FormValue("batch"); previous != "" {
		h.stage.Take(previous)
	}

	batch, err := readBatch(r, filesField, h.config.Upload.PreviewSize)
	if err != nil {
		slog.Warn("failed to read upload", "error", err)
		respondAlert(w, h.renderer, view.Danger(err.Error()))
		return
	}
	h.metrics.UploadFiles(len(batch.Files), len(batch.Rejections))

	if len(batch.Files) > 0 {
		h.stage.Put(batch)
	}
	data := newPreviewsData(batch)
	if len(batch.Files) == 0 {
		data.BatchID = ""
	}
	h.renderer.Render(w, http.StatusOK, templates.Part{Name: "previews", Data: data})
}

// Remove drops one preview from a staged batch. Removing the last preview
// disables the submit control.
func (h *PreviewsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batch")
	fileID := chi.URLParam(r, "id")

	batch, _ := h.stage.RemoveFile(batchID, fileID)
	if batch == nil {
		h.renderer.Render(w, http.StatusOK,
			templates.Part{Name: "previews", Data: PreviewsData{}},
			alertPart(view.Danger(expiredSelection)),
		)
		return
	}
	h.renderer.Render(w, http.StatusOK, templates.Part{Name: "previews", Data: newPreviewsData(batch)})
}

// expiredSelection is shown when a staged batch is no longer available.
const expiredSelection = "Your selection has expired, please select the images again"
