package api

import (
	"errors"
	"net/http"

	"github.com/mnemolabs/mnemo-api/internal/domain"
	"github.com/mnemolabs/mnemo-api/internal/service/auth"
	"github.com/mnemolabs/mnemo-api/internal/service/study"
	"github.com/mnemolabs/mnemo-api/internal/stats"
	"github.com/mnemolabs/mnemo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, study.ErrSessionNotOwned),
		errors.Is(err, study.ErrDeckNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, study.ErrSessionNotFound),
		errors.Is(err, study.ErrDeckNotFound),
		errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// State conflicts: the session exists but is not in a state that
	// allows the operation.
	case errors.Is(err, domain.ErrInvalidSessionState):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, study.ErrCardNotInDeck),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidResponseTime),
		errors.Is(err, domain.ErrGoalValueInvalid),
		errors.Is(err, stats.ErrInvalidTimeRange),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Special cases
	case errors.Is(err, study.ErrNoCardsDue):
		return http.StatusNoContent

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for the
// given error. Internal details stay in the logs.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, study.ErrSessionNotOwned):
		return "You do not own this session"

	case errors.Is(err, study.ErrDeckNotOwned):
		return "You do not own this deck"

	case errors.Is(err, study.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, study.ErrDeckNotFound),
		errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, study.ErrCardNotInDeck):
		return "Card does not belong to the session's deck"

	case errors.Is(err, domain.ErrInvalidQuality):
		return "Quality must be between 1 and 4"

	case errors.Is(err, domain.ErrInvalidResponseTime):
		return "Response time must be positive"

	case errors.Is(err, domain.ErrInvalidSessionState):
		return "Session is not in a state that allows this operation"

	case errors.Is(err, domain.ErrGoalValueInvalid):
		return "Goal value must be positive"

	case errors.Is(err, stats.ErrInvalidTimeRange):
		return "Time range start must not be after its end"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
