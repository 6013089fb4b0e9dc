package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bencao/herbquiz/internal/catalog"
	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/services"
	"github.com/bencao/herbquiz/internal/worker"
)

func (s *Server) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := s.CatalogService.Reload(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded"})
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	doc, err := s.ContentService.Document(r.Context(), chi.URLParam(r, "doc"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutContent(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	doc := chi.URLParam(r, "doc")

	var body struct {
		Content json.RawMessage `json:"content"`
		Version string          `json:"version"`
		Message string          `json:"message"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	version, err := s.ContentService.SaveDocument(r.Context(), doc, body.Content, body.Version, body.Message)
	if err != nil {
		handleError(w, r, err)
		return
	}

	// Pull the published document back down and reload the store in the
	// background, so the running server converges on what was just saved.
	fileName := catalog.HerbsFile
	if doc == services.DocCategories {
		fileName = catalog.CategoriesFile
	}
	job := &worker.SyncCatalogJob{
		Source:   s.ContentService,
		Reloader: s.CatalogService,
		Doc:      doc,
		DataDir:  s.DataDir,
		FileName: fileName,
	}
	if s.ContentPool == nil || !s.ContentPool.TrySubmit(job) {
		log.Warn("catalog sync not queued for %s; reload manually", doc)
	}

	writeJSON(w, http.StatusOK, map[string]any{"version": version})
}

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxImageBytes())
	data, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn("image upload rejected: %v", err)
		handleError(w, r, errors.NewBadRequestError("image too large or unreadable"))
		return
	}

	url, err := s.ContentService.UploadImage(r.Context(), data)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"url": url})
}
