// Package apperror defines the request-level failure taxonomy shared by
// services and controllers. Services wrap these sentinels with context;
// controllers map them to HTTP status codes with errors.Is.
package apperror

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound covers unknown tokens and ids, and id/status combinations
	// that exclude the requested operation.
	ErrNotFound = errors.New("not found")

	// ErrInviteNotActive is submit's precondition failure: the invite is not
	// in_progress (already completed, expired, or never started).
	ErrInviteNotActive = errors.New("test session is not active")

	// ErrOutOfWindow means a scheduled test was accessed outside the ±30
	// minute start window.
	ErrOutOfWindow = errors.New("outside the scheduled start window")

	// ErrConflict means the applicant has a different, older pending test
	// that must be completed first.
	ErrConflict = errors.New("another test must be completed first")

	// ErrValidation covers malformed or missing required request fields.
	ErrValidation = errors.New("invalid request")

	// ErrForbidden covers role or ownership mismatches.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized covers missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// HTTPStatus maps a service error to the response status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInviteNotActive):
		return http.StatusNotFound
	case errors.Is(err, ErrOutOfWindow), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
