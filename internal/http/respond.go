package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"rentkenya/internal/lib/logger/sl"
)

// apiResponse — единый конверт ответа API.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, log *slog.Logger, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{
		Success: status < http.StatusBadRequest,
		Message: message,
		Data:    data,
	}); err != nil {
		log.Error("failed to encode response", sl.Err(err))
	}
}

func respondError(w http.ResponseWriter, log *slog.Logger, status int, message string) {
	respondJSON(w, log, status, message, nil)
}
