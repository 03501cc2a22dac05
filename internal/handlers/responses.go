package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ustaBack/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors onto HTTP statuses. Unknown errors
// become a generic 500 so internal details never leak to the client.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, models.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, models.ErrNoRecord),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrRequestNotFound),
		errors.Is(err, models.ErrTaskNotFound),
		errors.Is(err, models.ErrApplicationNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrAlreadyApplied), errors.Is(err, models.ErrInvalidStatus):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrDuplicateEmail), errors.Is(err, models.ErrDuplicatePhone):
		writeError(w, http.StatusConflict, err.Error())
	case isForeignKeyConstraintError(err):
		writeError(w, http.StatusBadRequest, "referenced record does not exist")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
