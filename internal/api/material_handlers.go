package api

import (
	"net/http"

	"github.com/vytor/recallflash/internal/logger"
	"github.com/vytor/recallflash/internal/models"
)

func (s *Server) handleCreateMaterial(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var in models.MaterialInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	material, err := s.MaterialService.Create(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("material created: id=%d", material.ID)
	writeJSON(w, r, http.StatusCreated, material)
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.MaterialService.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, materials)
}

func (s *Server) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	material, err := s.MaterialService.Get(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, material)
}

func (s *Server) handleDeleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.MaterialService.Delete(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDeck returns the full ordered deck, generating cards on first use.
func (s *Server) handleDeck(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if _, err := s.MaterialService.Get(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	cards, err := s.DeckService.LoadDeck(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	if _, err := s.MaterialService.Get(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}
	cards, err := s.DeckService.DueCards(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, cards)
}

func (s *Server) handleMaterialStats(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}

	stats, err := s.MaterialService.Stats(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}
