// Package service contains the business logic of both peers: the server's
// auth and sync services, and the client's sync engine with its scheduling
// job. Client-side types carry the client_ prefix, mirroring the package
// split used at the transport layer.
package service

import (
	"context"
	"time"

	"github.com/jbccc/znote/models"
)

// AuthService implements the auth boundary: external identity verification,
// account upsert, and bearer token lifecycle.
type AuthService interface {
	// SignInGoogle verifies the ID token with the external OAuth verifier,
	// upserts the account, and issues a bearer token.
	SignInGoogle(ctx context.Context, req models.GoogleSignInRequest) (models.SignInResponse, error)

	// SignInInternal accepts a pre-verified identity from a trusted
	// deployment-internal caller gated by a shared credential.
	SignInInternal(ctx context.Context, req models.InternalSignInRequest) (models.SignInResponse, error)

	// Me returns the user record a bearer token belongs to.
	Me(ctx context.Context, userID int64) (models.User, error)

	// CreateToken issues a signed bearer token for the user.
	CreateToken(ctx context.Context, user models.User) (models.Token, error)

	// ParseToken validates a bearer token string and extracts the user ID.
	// Returns [ErrTokenIsExpired] for stale tokens.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// SyncService implements the authoritative side of the replication
// protocol.
type SyncService interface {
	// Push applies a batched upload atomically and reports accepted ids
	// and detected conflicts.
	Push(ctx context.Context, userID int64, req models.PushRequest) (models.PushResponse, error)

	// Pull returns every record of the user touched strictly after since,
	// tombstones included. A nil since means "from epoch".
	Pull(ctx context.Context, userID int64, since *time.Time) (models.PullResponse, error)

	// Full returns the user's live dataset without tombstones. Used on
	// first sign-in or client-initiated reset.
	Full(ctx context.Context, userID int64) (models.PullResponse, error)

	// ResolveConflict marks a persisted conflict row as resolved.
	ResolveConflict(ctx context.Context, userID int64, req models.ResolveConflictRequest) error

	// ListConflicts returns the user's unresolved conflict rows.
	ListConflicts(ctx context.Context, userID int64) ([]models.Conflict, error)
}
