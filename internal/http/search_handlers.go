package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/services/search"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type saveSearchRequest struct {
	Name     string                `json:"name"`
	Criteria domain.FilterCriteria `json:"criteria"`
}

func (s *Server) handleSaveSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	var req saveSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := s.searches.SaveSearch(r.Context(), userID, req.Name, req.Criteria)
	if err != nil {
		if errors.Is(err, search.ErrEmptySearchName) {
			respondError(w, s.log, http.StatusBadRequest, "search name must not be empty")
			return
		}
		s.log.Error("save search failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to save search")
		return
	}

	respondJSON(w, s.log, http.StatusCreated, "search saved", map[string]string{"id": id.String()})
}

func (s *Server) handleListSavedSearches(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	searches, err := s.searches.ListSavedSearches(r.Context(), userID)
	if err != nil {
		s.log.Error("list saved searches failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to list saved searches")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", searches)
}

// handleRunSavedSearch — исполняет сохранённый поиск: грубая выборка из БД,
// затем точная фильтрация по восстановленным критериям.
func (s *Server) handleRunSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid search id")
		return
	}

	saved, criteria, err := s.searches.LoadSavedSearch(r.Context(), id, userID)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrSavedSearchNotFound):
			respondError(w, s.log, http.StatusNotFound, "saved search not found")
		case errors.Is(err, domain.ErrCriteriaVersion):
			respondError(w, s.log, http.StatusConflict, "saved search uses an unsupported criteria version")
		default:
			s.log.Error("load saved search failed", sl.Err(err))
			respondError(w, s.log, http.StatusInternalServerError, "failed to load saved search")
		}
		return
	}

	filter := coarseFilter(criteria, paginationFromQuery(r))

	result, err := s.properties.ListProperties(r.Context(), filter)
	if err != nil {
		s.log.Error("run saved search failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to run saved search")
		return
	}

	items := search.Filter(result.Items, criteria)

	respondJSON(w, s.log, http.StatusOK, "", map[string]interface{}{
		"search":          saved,
		"items":           items,
		"next_page_token": result.NextPageToken,
		"has_more":        result.HasMore,
	})
}

func (s *Server) handleDeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid search id")
		return
	}

	if err := s.searches.DeleteSavedSearch(r.Context(), id, userID); err != nil {
		if errors.Is(err, search.ErrSavedSearchNotFound) {
			respondError(w, s.log, http.StatusNotFound, "saved search not found")
			return
		}
		s.log.Error("delete saved search failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to delete saved search")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "saved search deleted", nil)
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	prefs, err := s.searches.GetPreferences(r.Context(), userID)
	if err != nil {
		s.log.Error("get preferences failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to get preferences")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", prefs)
}

func (s *Server) handleUpsertPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	var prefs domain.SearchPreferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}
	prefs.UserID = userID

	if err := s.searches.UpsertPreferences(r.Context(), prefs); err != nil {
		if errors.Is(err, domain.ErrUnknownPropertyType) {
			respondError(w, s.log, http.StatusBadRequest, "unknown property type")
			return
		}
		s.log.Error("upsert preferences failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "preferences saved", nil)
}
