package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bencao/herbquiz/internal/errors"
	"github.com/bencao/herbquiz/internal/logger"
	"github.com/bencao/herbquiz/internal/models"
	"github.com/bencao/herbquiz/internal/services"
)

func (s *Server) handleQuizSetup(w http.ResponseWriter, r *http.Request) {
	setup, err := s.CatalogService.Setup(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, setup)
}

func (s *Server) handleStartQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var filter models.QuizFilter
	if err := decodeJSON(r, &filter); err != nil {
		handleError(w, r, err)
		return
	}

	view, err := s.QuizService.Start(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Info("quiz session created: %s", view.ID)
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Selected string `json:"selected"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if body.Selected == "" {
		handleError(w, r, errors.NewValidationError("selected", "an answer option is required"))
		return
	}

	view, err := s.QuizService.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), body.Selected)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Advance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	view, err := s.QuizService.Retreat(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	result, err := s.QuizService.Finish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if body.Mode == "" {
		body.Mode = services.RetryMistakes
	}

	view, err := s.QuizService.Retry(r.Context(), chi.URLParam(r, "id"), body.Mode)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
