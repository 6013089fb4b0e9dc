package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Get("/herbs", s.handleHerbs)
	r.Get("/herbs/suggest", s.handleSuggest)
	r.Get("/herbs/{id}", s.handleHerbDetail)

	r.Get("/categories", s.handleCategories)
	r.Get("/categories/{key}", s.handleCategoryDetail)

	r.Get("/quiz/setup", s.handleQuizSetup)
	r.Post("/quiz/sessions", s.handleStartQuiz)
	r.Get("/quiz/sessions/{id}", s.handleGetQuiz)
	r.Post("/quiz/sessions/{id}/answer", s.handleAnswer)
	r.Post("/quiz/sessions/{id}/advance", s.handleAdvance)
	r.Post("/quiz/sessions/{id}/retreat", s.handleRetreat)
	r.Post("/quiz/sessions/{id}/finish", s.handleFinish)
	r.Post("/quiz/sessions/{id}/retry", s.handleRetry)

	r.Get("/mistakes", s.handleMistakes)
	r.Delete("/mistakes/{index}", s.handleDeleteMistake)

	r.Get("/results", s.handleResults)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.adminAuthMiddleware)
		r.Post("/catalog/reload", s.handleReloadCatalog)
		if s.ContentService != nil {
			r.Get("/content/{doc}", s.handleGetContent)
			r.Put("/content/{doc}", s.handlePutContent)
			r.Post("/images", s.handleUploadImage)
		}
	})

	return r
}
