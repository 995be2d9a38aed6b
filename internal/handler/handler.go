package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopkart/internal/middleware"
	"shopkart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to an HTTP response. Domain errors
// carry their own kind and safe message; anything else is an internal error
// whose text never reaches the client.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusInternalServerError
		switch domainErr.Kind {
		case model.KindValidation:
			status = http.StatusBadRequest
		case model.KindNotFound:
			status = http.StatusNotFound
		case model.KindConflict:
			status = http.StatusConflict
		}
		writeError(w, status, domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// requireUser extracts the authenticated user from the request context and
// writes a 401 when it is absent.
func requireUser(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (string, bool) {
	userID := middleware.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "user identity is required", logger)
		return "", false
	}
	return userID, true
}
