package httpapi

import (
	"errors"
	"net/http"

	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/services/notification"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	notifications, err := s.notifications.List(r.Context(), userID)
	if err != nil {
		s.log.Error("list notifications failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", notifications)
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid notification id")
		return
	}

	if err := s.notifications.MarkRead(r.Context(), id, userID); err != nil {
		if errors.Is(err, notification.ErrNotificationNotFound) {
			respondError(w, s.log, http.StatusNotFound, "notification not found")
			return
		}
		s.log.Error("mark notification read failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "notification marked as read", nil)
}

func (s *Server) handleNotificationUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	count, err := s.notifications.UnreadCount(r.Context(), userID)
	if err != nil {
		s.log.Error("notification unread count failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to count unread notifications")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", map[string]int64{"unread": count})
}
