package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the HTTP routes of the dashboard.
func (s *ServerContext) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		RequestLogger,
		s.instrument,
		middleware.Recoverer,
	)

	r.Get("/", s.HandleIndex)
	r.Get("/favicon.svg", s.HandleFavicon)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.HandleHealth)
		r.Get("/options", s.HandleOptions)
		r.Get("/explore", s.HandleExplore)
		r.Get("/airports.geojson", s.HandleGeoJSON)
	})

	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	return r
}
