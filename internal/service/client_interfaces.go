package service

import (
	"context"

	"github.com/jbccc/znote/internal/adapter"
	"github.com/jbccc/znote/internal/events"
	"github.com/jbccc/znote/models"
)

// ClientSyncEngine is the client-side single source of truth: an
// event-emitting façade over the local replica that editors call for every
// mutation, plus the replication driver reconciling the replica with the
// server.
//
// Construct exactly one engine per user session and pass it to UI
// collaborators explicitly. All methods are safe for concurrent use; at
// most one Sync runs at a time per engine instance.
type ClientSyncEngine interface {
	// Initialize loads the replica and a persisted token, verifies the
	// token against the server, and runs one sync when signed in. A token
	// that fails verification is cleared and the engine settles signed-out.
	Initialize(ctx context.Context) error

	// SignIn exchanges a Google ID token for a bearer token, pushes any
	// pending local changes first so offline edits survive, then replaces
	// the replica via a full sync.
	SignIn(ctx context.Context, idToken, refreshToken string) error

	// SignOut drops credentials but keeps local data as the anonymous
	// baseline.
	SignOut(ctx context.Context) error

	// SaveBlock applies a partial mutation, stamps version/clientId, marks
	// the record pending, and schedules a debounced sync.
	SaveBlock(ctx context.Context, change models.BlockChange) (models.LocalBlock, error)

	// DeleteBlock tombstones a block locally and schedules a sync.
	DeleteBlock(ctx context.Context, id string) error

	SaveTomorrowTask(ctx context.Context, change models.TomorrowTaskChange) (models.LocalTask, error)
	DeleteTomorrowTask(ctx context.Context, id string) error

	// SaveSettings stores the preferences and schedules a sync. Settings
	// are last-writer-wins; no version counter is kept.
	SaveSettings(ctx context.Context, settings models.Settings) error

	// GetBlocks lists live blocks ordered (createdAt, position).
	GetBlocks() []models.LocalBlock

	// GetTomorrowTasks lists live tasks ordered by position.
	GetTomorrowTasks() []models.LocalTask

	// GetSettings returns the current preferences (defaults when the user
	// never saved any).
	GetSettings() models.Settings

	// GetUser returns the signed-in user, or nil when anonymous.
	GetUser() *models.User

	// Status returns the engine's externally visible state.
	Status() events.Status

	// Sync pushes pending changes and merges the server delta. Returns
	// early when signed out, offline, or a sync is already in flight.
	Sync(ctx context.Context) error

	// FullSync replaces the replica with the server's live dataset,
	// marking every incoming record synced.
	FullSync(ctx context.Context) error

	// SetOnline records a connectivity transition. Going online triggers
	// a sync; going offline flips the status to offline.
	SetOnline(ctx context.Context, online bool)

	// Events exposes the emitter UI collaborators subscribe to.
	Events() *events.Emitter

	// Close stops the debounce timer and closes the replica.
	Close() error
}

// ClientServices aggregates everything the client binary wires together.
type ClientServices struct {
	Engine  ClientSyncEngine
	Adapter adapter.ServerAdapter
}
