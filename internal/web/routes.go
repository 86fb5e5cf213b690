package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/facedesk/internal/training"
	"github.com/kozaktomas/facedesk/internal/web/handlers"
	"github.com/kozaktomas/facedesk/internal/web/middleware"
	"github.com/kozaktomas/facedesk/internal/web/static"
)

func (s *Server) setupRoutes() {
	// Create handlers
	statsHandler := handlers.NewStatsHandler(s.config, s.renderer)
	pagesHandler := handlers.NewPagesHandler(s.config, s.renderer, s.deps.Monitor, statsHandler)
	personsHandler := handlers.NewPersonsHandler(s.config, s.renderer, s.deps.Stage, s.deps.Metrics, statsHandler)
	imagesHandler := handlers.NewImagesHandler(s.config, s.renderer, statsHandler)
	previewsHandler := handlers.NewPreviewsHandler(s.config, s.renderer, s.deps.Stage, s.deps.Metrics)
	recognizeHandler := handlers.NewRecognizeHandler(s.config, s.renderer)
	trainingHandler := handlers.NewTrainingHandler(s.config, s.renderer, s.deps.Monitor, statsHandler)
	configHandler := handlers.NewConfigHandler(s.config)

	s.deps.Monitor.OnFinish(func(snap training.Snapshot) {
		trainingHandler.RecordFinished(snap)
		s.deps.Metrics.TrainingFinished(snap)
	})

	// Health check and metrics (no backend needed)
	s.router.Get("/api/v1/health", handlers.HealthCheck)
	s.router.Method(http.MethodGet, "/metrics", s.deps.Metrics.Handler())

	// Embedded css and js
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.GetFileSystem())))

	// Reference photos and recognition results served by the backend
	s.router.Handle("/uploads/*", handlers.NewUploadsProxy(s.backendURL))

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.WithBackend(s.deps.Client))

		r.Get("/", pagesHandler.Index)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/training", trainingHandler.Status)
			r.Get("/training/events", trainingHandler.Events)
			r.Get("/stats", statsHandler.Get)
			r.Get("/config", configHandler.Get)
		})

		r.Route("/htmx", func(r chi.Router) {
			// Persons
			r.Get("/persons", personsHandler.List)
			r.Post("/persons", personsHandler.Create)
			r.Get("/persons/{id}/name", personsHandler.NameDisplay)
			r.Get("/persons/{id}/name/edit", personsHandler.NameEdit)
			r.Put("/persons/{id}/name", personsHandler.Rename)
			r.Post("/persons/{id}/images", personsHandler.AddImages)
			r.Delete("/persons/{id}", personsHandler.Delete)

			// Images
			r.Delete("/images/{id}", imagesHandler.Delete)

			// Upload previews
			r.Post("/previews", previewsHandler.Stage)
			r.Delete("/previews/{batch}/{id}", previewsHandler.Remove)

			// Recognition
			r.Post("/recognize", recognizeHandler.Recognize)

			// Training and statistics
			r.Post("/training", trainingHandler.Start)
			r.Get("/training", trainingHandler.Progress)
			r.Get("/stats", statsHandler.Fragment)
		})
	})
}
