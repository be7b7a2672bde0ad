package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentkenya/internal/domain"
	"rentkenya/internal/lib/logger/sl"
	"rentkenya/internal/services/user"
)

type registerRequest struct {
	Email                  string                 `json:"email"`
	Password               string                 `json:"password"`
	FirstName              string                 `json:"first_name"`
	LastName               string                 `json:"last_name"`
	Role                   domain.Role            `json:"role"`
	Phone                  string                 `json:"phone"`
	CaretakerPhone         string                 `json:"caretaker_phone"`
	DisplayPhonePreference domain.PhonePreference `json:"display_phone_preference"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DisplayPhonePreference == "" {
		req.DisplayPhonePreference = domain.PhonePreferenceOwner
	}

	profile := domain.Profile{
		Email:                  req.Email,
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Role:                   req.Role,
		Phone:                  req.Phone,
		CaretakerPhone:         req.CaretakerPhone,
		DisplayPhonePreference: req.DisplayPhonePreference,
	}

	id, err := s.users.Register(r.Context(), profile, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			respondError(w, s.log, http.StatusConflict, "email already registered")
		case isValidationError(err):
			respondError(w, s.log, http.StatusBadRequest, userFacing(err))
		default:
			s.log.Error("register failed", sl.Err(err))
			respondError(w, s.log, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	respondJSON(w, s.log, http.StatusCreated, "user registered", map[string]string{"id": id.String()})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}

	token, profile, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondError(w, s.log, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.log.Error("login failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "login failed")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "logged in", map[string]interface{}{
		"token": token,
		"user":  profile,
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	profile, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			respondError(w, s.log, http.StatusNotFound, "profile not found")
			return
		}
		s.log.Error("get profile failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to get profile")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "", profile)
}

type updateProfileRequest struct {
	FirstName              *string                 `json:"first_name"`
	LastName               *string                 `json:"last_name"`
	Phone                  *string                 `json:"phone"`
	CaretakerPhone         *string                 `json:"caretaker_phone"`
	DisplayPhonePreference *domain.PhonePreference `json:"display_phone_preference"`
	AvatarURL              *string                 `json:"avatar_url"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondError(w, s.log, http.StatusUnauthorized, "missing identity")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, s.log, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.users.UpdateProfile(r.Context(), userID, domain.ProfileFilter{
		FirstName:              req.FirstName,
		LastName:               req.LastName,
		Phone:                  req.Phone,
		CaretakerPhone:         req.CaretakerPhone,
		DisplayPhonePreference: req.DisplayPhonePreference,
		AvatarURL:              req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, user.ErrProfileNotFound) {
			respondError(w, s.log, http.StatusNotFound, "profile not found")
			return
		}
		s.log.Error("update profile failed", sl.Err(err))
		respondError(w, s.log, http.StatusInternalServerError, "failed to update profile")
		return
	}

	respondJSON(w, s.log, http.StatusOK, "profile updated", updated)
}

// isValidationError проверяет, относится ли ошибка к доменной валидации.
func isValidationError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyName,
		domain.ErrUnknownRole,
		domain.ErrLandlordPhoneRequired,
		domain.ErrCaretakerPhoneRequired,
		domain.ErrUnknownPhonePreference,
		user.ErrEmptyEmail,
		user.ErrEmptyPassword,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// userFacing возвращает текст доменной ошибки без внутренних префиксов.
func userFacing(err error) string {
	unwrapped := err
	for {
		next := errors.Unwrap(unwrapped)
		if next == nil {
			return unwrapped.Error()
		}
		unwrapped = next
	}
}
