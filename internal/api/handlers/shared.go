package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// respondServiceError maps a service error to an HTTP status and sends the
// standard error envelope.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	respondJSON(w, statusForError(err), map[string]string{
		"error":  message,
		"detail": err.Error(),
	})
}

// statusForError picks the HTTP status for a service error. Unrecognized
// errors map to 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrFundNotFound),
		errors.Is(err, apperrors.ErrTradeNotFound),
		errors.Is(err, apperrors.ErrFeedConfigNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrGenerationInFlight),
		errors.Is(err, apperrors.ErrDuplicateEntry):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidTradeMode),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrEmptyID),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrExcessiveRedemption),
		errors.Is(err, apperrors.ErrNoPositions),
		errors.Is(err, apperrors.ErrNoPriceAvailable),
		errors.Is(err, apperrors.ErrCalendarNotFound),
		errors.Is(err, apperrors.ErrDataInconsistency):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
