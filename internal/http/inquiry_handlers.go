package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/services/inquiry"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createInquiryRequest struct {
	PropertyID  uuid.UUID          `json:"property_id"`
	InquiryType domain.InquiryType `json:"inquiry_type"`
	Subject     string             `json:"subject"`
	Message     string             `json:"message"`
}

func (s *Server) handleCreateInquiry(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.InquiryType == "" {
		req.InquiryType = domain.InquiryTypeGeneral
	}

	id, err := s.inquiries.CreateInquiry(r.Context(), domain.Inquiry{
		PropertyID:  req.PropertyID,
		SenderID:    userID,
		InquiryType: req.InquiryType,
		Subject:     req.Subject,
		Message:     req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, inquiry.ErrPropertyNotFound):
			respondError(w, s.log, http.StatusNotFound, "property not found")
		case errors.Is(err, inquiry.ErrOwnProperty):
			respondError(w, s.log, http.StatusBadRequest, userFacing(err))
		case isInquiryValidationError(err):
			respondError(w, s.log, http.StatusBadRequest, userFacing(err))
		default:
			s.log.Error("create inquiry failed", sl.Err(err))
			respondError(w, s.log, http.StatusInternalServerError, "failed to create inquiry")
		}
		return
	}

	respondJSON(w, s.log, http.StatusCreated, "inquiry sent", map[string]string{"id": id.String()})
}

func (s *Server) handleListInbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	inquiries, err := s.inquiries.ListInbox(r.Context(), userID)
	if err != nil {
		s.log.Error("list inbox failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to list inquiries")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", inquiries)
}

func (s *Server) handleListSent(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	inquiries, err := s.inquiries.ListSent(r.Context(), userID)
	if err != nil {
		s.log.Error("list sent inquiries failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to list inquiries")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", inquiries)
}

func (s *Server) handleMarkInquiryRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid inquiry id")
		return
	}

	if err := s.inquiries.MarkRead(r.Context(), id, userID); err != nil {
		if errors.Is(err, inquiry.ErrInquiryNotFound) {
			respondError(w, s.log, http.StatusNotFound, "inquiry not found")
			return
		}
		s.log.Error("mark inquiry read failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to mark inquiry read")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "inquiry marked as read", nil)
}

func (s *Server) handleInquiryUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	count, err := s.inquiries.UnreadCount(r.Context(), userID)
	if err != nil {
		s.log.Error("unread count failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to count unread inquiries")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", map[string]int64{"unread": count})
}

func isInquiryValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptySubject,
		domain.ErrEmptyMessage,
		domain.ErrUnknownInquiryType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
