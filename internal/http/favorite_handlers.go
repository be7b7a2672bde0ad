package httpapi

import (
	"errors"
	"net/http"

	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/repository"
	"rentkenya/internal/services/favorites"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid property id")
		return
	}

	isFavorite, err := s.favorites.ToggleFavorite(r.Context(), userID, propertyID)
	if err != nil {
		s.log.Error("toggle favorite failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to toggle favorite")
		return
	}

	message := "property removed from favorites"
	if isFavorite {
		message = "property added to favorites"
	}

	respondJSON(w, s.log, http.StatusOK, message, map[string]bool{"is_favorite": isFavorite})
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	properties, err := s.favorites.FavoriteProperties(r.Context(), userID)
	if err != nil {
		s.log.Error("list favorites failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to list favorites")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", properties)
}

func (s *Server) handleAddToComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid property id")
		return
	}

	if err := s.favorites.AddToComparison(r.Context(), userID, propertyID); err != nil {
		switch {
		case errors.Is(err, favorites.ErrComparisonFull):
			respondError(w, s.log, http.StatusConflict, userFacing(err))
		case errors.Is(err, repository.ErrPropertyNotFound):
			respondError(w, s.log, http.StatusNotFound, "property not found")
		default:
			s.log.Error("add to comparison failed", sl.Err(err))
			respondError(w, s.log, http.StatusInternalServerError, "failed to add to comparison")
		}
		return
	}

	respondJSON(w, s.log, http.StatusOK, "property added to comparison", nil)
}

func (s *Server) handleRemoveFromComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	propertyID, err := uuid.Parse(chi.URLParam(r, "propertyID"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid property id")
		return
	}

	s.favorites.RemoveFromComparison(userID, propertyID)
	respondJSON(w, s.log, http.StatusOK, "property removed from comparison", nil)
}

func (s *Server) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	properties, err := s.favorites.ComparisonProperties(r.Context(), userID)
	if err != nil {
		s.log.Error("get comparison failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to get comparison")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", properties)
}

func (s *Server) handleClearComparison(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	s.favorites.ClearComparison(userID)
	respondJSON(w, s.log, http.StatusOK, "comparison cleared", nil)
}
