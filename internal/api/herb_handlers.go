package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleHerbs(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	keyword := r.URL.Query().Get("q")
	log.Debug("filtering herbs: q=%q", keyword)

	herbs, err := s.CatalogService.Herbs(r.Context(), keyword)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"herbs": herbs,
		"count": len(herbs),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")

	herbs, err := s.CatalogService.Suggest(r.Context(), keyword)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggestions": herbs})
}

func (s *Server) handleHerbDetail(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("invalid herb ID: %s", idStr)
		handleError(w, r, errors.NewBadRequestError("invalid herb ID"))
		return
	}

	herb, err := s.CatalogService.Herb(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, herb)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.CatalogService.Categories(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (s *Server) handleCategoryDetail(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	view, err := s.CatalogService.Category(r.Context(), key)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
