package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/woozymasta/greenmap/internal/metrics"
)

// Router returns the HTTP routes of the viewer API.
func (s *ServerContext) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/select", s.HandleSelect)
		r.Post("/click", s.HandleClick)
		r.Get("/selection", s.HandleSelection)
		r.Delete("/selection", s.HandleClear)
		r.Get("/highlight", s.HandleHighlight)
		r.Get("/directions", s.HandleDirections)
		r.Post("/viewport", s.HandleViewport)
		r.Get("/catalog", s.HandleCatalog)
		r.Post("/catalog/select", s.HandleCatalogSelect)
	})
	r.Handle("/metrics", metrics.Handler())

	return r
}
