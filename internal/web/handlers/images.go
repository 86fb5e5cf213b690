package handlers

import (
	"log/slog"
	"net/http"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// ImagesHandler handles single image endpoints
type ImagesHandler struct {
	config   *config.Config
	renderer *templates.Renderer
	stats    *StatsHandler
}

// NewImagesHandler creates a new images handler
func NewImagesHandler(cfg *config.Config, renderer *templates.Renderer, stats *StatsHandler) *ImagesHandler {
	return &ImagesHandler{
		config:   cfg,
		renderer: renderer,
		stats:    stats,
	}
}

// Delete removes one reference image. The client removes the tile on an
// empty 200; the rest of the roster is left untouched.
func (h *ImagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondAlert(w, h.renderer, view.Danger(err.Error()))
		return
	}

	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}
	if err := client.DeleteImage(r.Context(), id); err != nil {
		slog.Warn("failed to delete image", "id", id, "error", err)
		respondAlert(w, h.renderer, view.Failure("Error deleting image", err))
		return
	}
	h.stats.InvalidateCache()
	w.WriteHeader(http.StatusOK)
}
