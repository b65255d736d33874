// Package store provides data-access abstractions and repository
// implementations for persisting and querying the sync domain objects
// (users, blocks, tomorrow tasks, settings, conflict reports).
//
// It defines repository interfaces, concrete PostgreSQL-backed
// implementations, query builders, and sentinel errors used across the
// storage layer, plus the sqlite-backed local replica store used by the
// client.
package store

import (
	"context"
	"time"

	"github.com/jbccc/znote/models"
)

// UserRepository defines the database access contract for user accounts.
type UserRepository interface {
	// UpsertByProvider creates the user for the given verified identity or
	// refreshes the mutable profile fields when the provider ID is already
	// known. Returns the persisted user with UserID populated.
	UpsertByProvider(ctx context.Context, identity models.Identity) (models.User, error)

	// GetByID retrieves a user by internal ID.
	// Returns [ErrNoUserWasFound] when the user does not exist.
	GetByID(ctx context.Context, userID int64) (models.User, error)
}

// BlockRepository defines the relational access contract for blocks.
//
// Mutating methods take a [Querier] so the sync service can funnel a whole
// push batch through one transaction.
type BlockRepository interface {
	// Get fetches a block by primary key regardless of owner; the caller
	// performs the ownership check. Returns [ErrRecordNotFound] when no
	// row exists.
	Get(ctx context.Context, q Querier, id string) (models.Block, error)

	// Insert persists a new block. updated_at is set server-side.
	Insert(ctx context.Context, q Querier, block models.Block) error

	// Update overwrites the mutable fields of an existing block and stamps
	// updated_at with the server clock. created_at is never touched.
	Update(ctx context.Context, q Querier, block models.Block) error

	// ListSince returns the user's blocks with updated_at strictly greater
	// than since, tombstones included, ordered (created_at, position).
	ListSince(ctx context.Context, userID int64, since time.Time) ([]models.Block, error)

	// ListActive returns the user's live blocks (no tombstones), ordered
	// (created_at, position).
	ListActive(ctx context.Context, userID int64) ([]models.Block, error)
}

// TaskRepository defines the relational access contract for tomorrow tasks.
type TaskRepository interface {
	Get(ctx context.Context, q Querier, id string) (models.TomorrowTask, error)
	Insert(ctx context.Context, q Querier, task models.TomorrowTask) error
	Update(ctx context.Context, q Querier, task models.TomorrowTask) error

	// ListSince returns the user's tasks with updated_at strictly greater
	// than since, tombstones included, ordered by position.
	ListSince(ctx context.Context, userID int64, since time.Time) ([]models.TomorrowTask, error)

	// ListActive returns the user's live tasks ordered by position.
	ListActive(ctx context.Context, userID int64) ([]models.TomorrowTask, error)
}

// SettingsRepository defines the relational access contract for the per-user
// settings row.
type SettingsRepository interface {
	// Upsert writes the settings row unconditionally (last write wins).
	Upsert(ctx context.Context, q Querier, settings models.Settings) error

	// Get returns the user's settings row.
	// Returns [ErrRecordNotFound] when the user has none yet.
	Get(ctx context.Context, userID int64) (models.Settings, error)
}

// ConflictRepository persists conflict reports recorded during pushes.
type ConflictRepository interface {
	Insert(ctx context.Context, q Querier, conflict models.Conflict) error

	// Resolve marks a conflict row as resolved. Returns
	// [ErrConflictNotFound] when the row does not exist or belongs to a
	// different user.
	Resolve(ctx context.Context, userID int64, conflictID string, resolution models.Resolution) error

	// ListUnresolved returns the user's unresolved conflict rows, newest
	// first.
	ListUnresolved(ctx context.Context, userID int64) ([]models.Conflict, error)
}

// Repositories aggregates all server-side repositories.
type Repositories struct {
	DB                 *DB
	UserRepository     UserRepository
	BlockRepository    BlockRepository
	TaskRepository     TaskRepository
	SettingsRepository SettingsRepository
	ConflictRepository ConflictRepository
}
