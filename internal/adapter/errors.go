// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package adapter

import "errors"

// Sentinel errors produced by adapter implementations when the server
// returns a non-2xx HTTP status code. Callers should use [errors.Is] to
// distinguish them, e.g. [errors.Is](err, [ErrUnauthorized]) to detect a
// stale bearer token.
var (
	// ErrBadRequest is returned when the server responds with HTTP 400,
	// indicating malformed or logically invalid request data.
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized is returned when the server responds with HTTP 401,
	// indicating that the request lacks valid authentication credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the server responds with HTTP 403.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the server responds with HTTP 404,
	// e.g. when resolving a conflict row that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInternalServerError is returned when the server responds with
	// HTTP 500, indicating an unexpected server-side failure.
	ErrInternalServerError = errors.New("internal server error")
)
