package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kozaktomas/facedesk/internal/config"
	"github.com/kozaktomas/facedesk/internal/constants"
	"github.com/kozaktomas/facedesk/internal/facerec"
	"github.com/kozaktomas/facedesk/internal/view"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/templates"
)

// statsCache holds the model statistics with expiry
type statsCache struct {
	mu        sync.RWMutex
	data      *facerec.ModelStats
	expiresAt time.Time
	ttl       time.Duration
}

func (c *statsCache) get() (*facerec.ModelStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.data, true
}

func (c *statsCache) set(data *facerec.ModelStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.expiresAt = time.Now().Add(c.ttl)
}

func (c *statsCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}

// StatsHandler handles model statistics endpoints
type StatsHandler struct {
	config   *config.Config
	renderer *templates.Renderer
	cache    statsCache
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(cfg *config.Config, renderer *templates.Renderer) *StatsHandler {
	return &StatsHandler{
		config:   cfg,
		renderer: renderer,
		cache:    statsCache{ttl: constants.StatsCacheTTL},
	}
}

// InvalidateCache clears the cached stats so the next request fetches fresh data
func (h *StatsHandler) InvalidateCache() {
	h.cache.invalidate()
}

// Store replaces the cached stats, e.g. with the ones fetched at the end of a training run.
func (h *StatsHandler) Store(stats *facerec.ModelStats) {
	if stats == nil {
		h.cache.invalidate()
		return
	}
	h.cache.set(stats)
}

// fetch returns the cached stats or loads them from the backend.
func (h *StatsHandler) fetch(ctx context.Context, client *facerec.Client) (*facerec.ModelStats, error) {
	if cached, ok := h.cache.get(); ok {
		return cached, nil
	}
	stats, err := client.ModelStats(ctx)
	if err != nil {
		return nil, err
	}
	h.cache.set(stats)
	return stats, nil
}

// views loads the stats and history panels. Failures degrade to the
// "never trained" placeholders.
func (h *StatsHandler) views(ctx context.Context, client *facerec.Client) (view.StatsView, view.HistoryView) {
	stats, err := h.fetch(ctx, client)
	if err != nil {
		slog.Warn("failed to load model stats", "error", err)
	}
	history, err := client.TrainingHistory(ctx)
	if err != nil {
		slog.Debug("no training history", "error", err)
		history = nil
	}
	return view.NewStatsView(stats), view.NewHistoryView(history)
}

// Get returns the model statistics as JSON
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if cached, ok := h.cache.get(); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}

	stats, err := h.fetch(r.Context(), client)
	if err != nil {
		respondBackendError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Fragment renders the stats panel with the training history as an out-of-band swap
func (h *StatsHandler) Fragment(w http.ResponseWriter, r *http.Request) {
	client := middleware.MustGetBackend(r.Context(), w)
	if client == nil {
		return
	}

	stats, history := h.views(r.Context(), client)
	h.renderer.Render(w, http.StatusOK,
		templates.Part{Name: "stats", Data: stats},
		templates.Part{Name: "history_oob", Data: history},
	)
}
