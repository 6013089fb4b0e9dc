package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
)

func (s *Server) handleMistakes(w http.ResponseWriter, r *http.Request) {
	entries, err := s.LedgerService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"mistakes": entries,
		"count":    len(entries),
	})
}

func (s *Server) handleDeleteMistake(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	idxStr := chi.URLParam(r, "index")
	index, err := strconv.Atoi(idxStr)
	if err != nil {
		log.Warn("invalid mistake index: %s", idxStr)
		handleError(w, r, errors.NewBadRequestError("invalid mistake index"))
		return
	}

	if err := s.LedgerService.Remove(r.Context(), index); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	q := r.URL.Query()

	var filter models.ResultFilter
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			log.Warn("invalid since value: %s", v)
			handleError(w, r, errors.NewBadRequestError("since must be RFC 3339"))
			return
		}
		filter.Since = &t
	}
	if v := q.Get("min_percent"); v != "" {
		filter.MinPercent, _ = strconv.Atoi(v)
	}
	filter.Grade = q.Get("grade")
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	results, err := s.ResultService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}
