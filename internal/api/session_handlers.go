package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/recallflash/internal/errors"
	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/session"
)

type startSessionRequest struct {
	MaterialID int64 `json:"material_id"`
}

type startSessionResponse struct {
	ID      string           `json:"id"`
	Session session.Snapshot `json:"session"`
}

type answerRequest struct {
	Correct *bool `json:"correct"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req startSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.MaterialID <= 0 {
		handleError(w, r, errors.NewValidationError("material_id", "must be a positive id"))
		return
	}

	id, snap, err := s.SessionService.Start(r.Context(), req.MaterialID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("session started: id=%s, cards=%d", id, snap.QueueLength)
	writeJSON(w, r, http.StatusCreated, startSessionResponse{ID: id, Session: snap})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.SessionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleRevealCard(w http.ResponseWriter, r *http.Request) {
	snap, err := s.SessionService.Reveal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleAnswerCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req answerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Correct == nil {
		handleError(w, r, errors.NewValidationError("correct", "is required"))
		return
	}

	logger.FromContext(r.Context()).Debug("answering card: session=%s, correct=%t", id, *req.Correct)
	snap, err := s.SessionService.Answer(r.Context(), id, *req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.SessionService.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleRefreshSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.SessionService.Refresh(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.SessionService.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
