// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

// Package adapter provides transport-layer abstractions for talking to the
// znote sync server and to the external OAuth verifier.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// sync engine from the wire protocol. The package ships an HTTP/JSON
// implementation built on resty ([NewHTTPServerAdapter]). Error values
// defined in errors.go are mapped from HTTP status codes by mapHTTPError so
// callers can use [errors.Is] for transport-agnostic error handling.
package adapter

import (
	"context"
	"time"

	"github.com/jbccc/znote/models"
)

// ServerAdapter defines transport-agnostic communication with the sync
// server. Implementations are responsible for serialization, bearer-token
// header management, and mapping transport errors to this package's
// sentinels.
type ServerAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. Call with "" to drop credentials.
	SetToken(token string)

	// Token returns the currently stored bearer token.
	Token() string

	// SignInGoogle exchanges a Google ID token for a bearer token at
	// POST /auth/google.
	SignInGoogle(ctx context.Context, req models.GoogleSignInRequest) (models.SignInResponse, error)

	// Me validates the stored bearer token against GET /auth/me and
	// returns the user it belongs to.
	Me(ctx context.Context) (models.User, error)

	// Push uploads a batch of pending changes to POST /sync/push.
	Push(ctx context.Context, req models.PushRequest) (models.PushResponse, error)

	// Pull fetches the incremental delta from GET /sync/pull. A nil since
	// asks for everything from epoch.
	Pull(ctx context.Context, since *time.Time) (models.PullResponse, error)

	// Full fetches the live dataset (no tombstones) from GET /sync/full.
	Full(ctx context.Context) (models.PullResponse, error)

	// ResolveConflict marks a persisted conflict row as resolved via
	// POST /sync/resolve-conflict.
	ResolveConflict(ctx context.Context, req models.ResolveConflictRequest) error

	// Conflicts lists the user's unresolved conflict rows from
	// GET /sync/conflicts.
	Conflicts(ctx context.Context) ([]models.Conflict, error)

	// Health probes GET /health. A nil error means the server is
	// reachable; used by the client's connectivity worker.
	Health(ctx context.Context) error
}

// GoogleVerifier is the server-side boundary to the external OAuth
// provider: it turns a raw ID token into a canonical identity or fails.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (models.Identity, error)
}
