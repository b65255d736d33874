package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when a payload fails validation
	// before reaching storage. Mapped to HTTP 400 at the transport layer.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrTokenIsExpired is returned when a bearer token's exp claim has
	// passed.
	ErrTokenIsExpired = errors.New("token is expired")

	// ErrInternalAuthDisabled is returned from the internal sign-in path
	// when the deployment carries no internal credential.
	ErrInternalAuthDisabled = errors.New("internal auth is disabled")

	// ErrWrongInternalKey is returned when the internal sign-in credential
	// does not match the configured hash.
	ErrWrongInternalKey = errors.New("wrong internal auth key")
)
