package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dom/cv-builder-api/internal/service"
	"github.com/dom/cv-builder-api/internal/storage"
	"github.com/dom/cv-builder-api/internal/validation"
	"github.com/rs/zerolog/log"
)

type messageResponse struct {
	Message string `json:"message"`
}

type validationResponse struct {
	Errors []validation.FieldError `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeList sends rows with the unpaginated total in X-Total-Count.
func writeList(w http.ResponseWriter, rows any, total int64) {
	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, rows)
}

var errorMessages = []struct {
	err     error
	status  int
	message string
}{
	{service.ErrEmailExists, http.StatusBadRequest, "This email already exists"},
	{service.ErrExperienceExists, http.StatusBadRequest, "Such experience already exists"},
	{service.ErrProjectExists, http.StatusBadRequest, "This project already exists"},
	{service.ErrFeedbackExists, http.StatusBadRequest, "Such feedback already exists"},
	{service.ErrFeedbackNotAllowed, http.StatusBadRequest, "feedback is allowed only for another user and on your behalf"},
	{storage.ErrUnsupportedImage, http.StatusBadRequest, "File must be a png, jpg, or jpeg image"},
	{storage.ErrImageTooLarge, http.StatusBadRequest, "File is too large"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrExperienceNotFound, http.StatusNotFound, "Experience not found"},
	{service.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
	{service.ErrFeedbackNotFound, http.StatusNotFound, "Feedback not found"},
	{service.ErrRecipientNotFound, http.StatusNotFound, "user about which feedback not exists"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
}

// writeServiceError maps a service error to its response. Unknown errors
// are logged under op and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, validationResponse{Errors: verr.Fields})
		return
	}

	if errors.Is(err, service.ErrForbidden) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	for _, m := range errorMessages {
		if errors.Is(err, m.err) {
			writeMessage(w, m.status, m.message)
			return
		}
	}

	log.Error().Err(err).Str("op", op).Msg("request failed")
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}
