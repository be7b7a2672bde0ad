package httpapi

import (
	"errors"
	"net/http"

	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/services/recommendation"
)

func (s *Server) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	result, err := s.recommendations.MatchProperties(r.Context(), userID)
	if err != nil {
		if errors.Is(err, recommendation.ErrProfileNotFound) {
			respondError(w, s.log, http.StatusNotFound, "profile not found")
			return
		}
		s.log.Error("recommendations failed", sl.Err(err))
		respondError(w, s.log, http.StatusBadGateway, "failed to get recommendations")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", result)
}

func (s *Server) handleAIStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, s.log, http.StatusOK, "", s.recommendations.Stats())
}
