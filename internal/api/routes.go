package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/recallflash/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	if s.RequestTimeout > 0 {
		r.Use(timeoutMiddleware(s.RequestTimeout))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/materials", func(r chi.Router) {
		r.Post("/", s.handleCreateMaterial)
		r.Get("/", s.handleListMaterials)
		r.Get("/{id}", s.handleGetMaterial)
		r.Delete("/{id}", s.handleDeleteMaterial)
		r.Get("/{id}/deck", s.handleDeck)
		r.Get("/{id}/due", s.handleDueCards)
		r.Get("/{id}/stats", s.handleMaterialStats)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleEndSession)
		r.Post("/{id}/reveal", s.handleRevealCard)
		r.Post("/{id}/answer", s.handleAnswerCard)
		r.Post("/{id}/reset", s.handleResetSession)
		r.Post("/{id}/refresh", s.handleRefreshSession)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	return r
}
