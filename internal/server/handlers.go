// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

const etagCap = 64

// WriteJSON serializes v as JSON with the provided status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a structured error response.
func Error(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// HandleIndex serves the main HTML application.
func (s *ServerContext) HandleIndex(w http.ResponseWriter, r *http.Request) {
	if match := r.Header.Get("If-None-Match"); match == s.indexETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("ETag", s.indexETag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(s.IndexHTML)
}

// HandleFavicon serves the site favicon.
func (s *ServerContext) HandleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(s.Favicon)
}

// HandleHealth reports liveness.
func (s *ServerContext) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleOptions serves the selectable filter values of the loaded dataset.
func (s *ServerContext) HandleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.Explorer.Options(r.Context())
	if err != nil {
		s.datasetError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, opts)
}

// HandleExplore runs one dashboard interaction.
func (s *ServerContext) HandleExplore(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r.URL.Query(), s.Explorer.DefaultQuery())
	if err != nil {
		s.queryError(w, r, err)
		return
	}

	res, err := s.Explorer.Explore(r.Context(), q)
	if err != nil {
		s.datasetError(w, r, err)
		return
	}

	log.Debug().
		Str("type", q.Criteria.Type).
		Int("regions", len(q.Criteria.Regions)).
		Int("records", res.Count).
		Int("nearest", len(res.Nearest)).
		Strs("warnings", res.Warnings).
		Msg("Explore request served")

	WriteJSON(w, http.StatusOK, res)
}

// HandleGeoJSON serves the filtered airports as a GeoJSON FeatureCollection.
func (s *ServerContext) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r.URL.Query(), s.Explorer.DefaultQuery().Criteria)
	if err != nil {
		s.queryError(w, r, err)
		return
	}

	records, err := s.Explorer.Filter(r.Context(), c)
	if err != nil {
		s.datasetError(w, r, err)
		return
	}

	body, err := s.Explorer.FeatureCollection(records).MarshalJSON()
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode GeoJSON")
		Error(w, http.StatusInternalServerError, "failed to encode GeoJSON")
		return
	}

	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(body)
}

func (s *ServerContext) queryError(w http.ResponseWriter, r *http.Request, err error) {
	var qe *QueryError
	if !errors.As(err, &qe) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unexpected query error")
	}
	Error(w, http.StatusBadRequest, err.Error())
}

func (s *ServerContext) datasetError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Dataset unavailable")
	Error(w, http.StatusServiceUnavailable, "dataset unavailable")
}
