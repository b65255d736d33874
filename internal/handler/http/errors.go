package http

import (
	"errors"
	"net/http"

	"github.com/jbccc/znote/internal/service"
	"github.com/jbccc/znote/internal/store"
)

var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when
	// the Authorization header is absent.
	ErrEmptyAuthorizationHeader = errors.New("empty authorization header")

	// ErrInvalidAuthorizationHeader is returned when the header cannot be
	// parsed as "<scheme> <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid authorization header")

	// ErrEmptyToken is returned when the token part of the header is an
	// empty string.
	ErrEmptyToken = errors.New("empty token")
)

// statusFromError maps service and store errors to HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidDataProvided):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTokenIsExpired),
		errors.Is(err, service.ErrWrongInternalKey),
		errors.Is(err, service.ErrInternalAuthDisabled):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrConflictNotFound),
		errors.Is(err, store.ErrNoUserWasFound),
		errors.Is(err, store.ErrRecordNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
