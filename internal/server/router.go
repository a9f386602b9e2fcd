package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/leshuiju/shipment-entry/internal/pipeline"
	"github.com/leshuiju/shipment-entry/internal/repository"
)

// NewRouter wires the JSON API surface.
func NewRouter(processor *pipeline.Processor, db *repository.DB, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handlers{processor: processor, db: db, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/process", h.Process)
		r.Get("/history", h.History)
		r.Get("/health", h.Health)
	})
	return r
}
