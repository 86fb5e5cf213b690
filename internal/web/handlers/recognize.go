package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/upload"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// RecognizeHandler submits photos for recognition
type RecognizeHandler struct {
	config   *config.Config
	renderer *templates.Renderer
}

// NewRecognizeHandler creates a new recognize handler
func NewRecognizeHandler(cfg *config.Config, renderer *templates.Renderer) *RecognizeHandler {
	return &RecognizeHandler{
		config:   cfg,
		renderer: renderer,
	}
}

// Recognize sends the uploaded photo to the backend and renders the result modal
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	if err := parseUpload(w, r, h.config.Upload.MaxSize); err != nil {
		respondAlert(w, h.renderer, view.Danger("Recognition failed: "+err.Error()))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondAlert(w, h.renderer, view.Danger("Please select an image"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondAlert(w, h.renderer, view.Danger("Recognition failed: could not read file"))
		return
	}
	contentType := upload.DetectContentType(header.Header.Get("Content-Type"), data)
	if contentType == "" {
		respondAlert(w, h.renderer, view.Danger(upload.RejectionMessage))
		return
	}

	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}

	result, err := client.Recognize(r.Context(), facerec.UploadFile{
		Name:        filepath.Base(header.Filename),
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		respondAlert(w, h.renderer, view.RecognitionFailure(err))
		return
	}

	h.renderer.Render(w, http.StatusOK, templates.Part{Name: "recognition", Data: view.NewRecognitionView(*result, imageSource)})
}
