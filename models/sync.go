// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package models

import "time"

// SyncStatus is the client-local lifecycle tag of a replicated record.
type SyncStatus string

const (
	// StatusPending means the record carries a local change the server has
	// not accepted yet.
	StatusPending SyncStatus = "pending"

	// StatusSynced means the local copy matches the last accepted server
	// version.
	StatusSynced SyncStatus = "synced"

	// StatusConflict means the server holds a newer version than the one
	// this client's edit was based on. The local edit is kept until the
	// user reconciles.
	StatusConflict SyncStatus = "conflict"
)

// PushRequest is the batched upload sent by a client. Collections the client
// has no pending changes for are omitted.
type PushRequest struct {
	// ClientID identifies the pushing installation and stamps every
	// accepted record.
	ClientID string `json:"clientId"`

	Blocks        []Block        `json:"blocks,omitempty"`
	TomorrowTasks []TomorrowTask `json:"tomorrowTasks,omitempty"`
	Settings      *Settings      `json:"settings,omitempty"`
}

// Applied lists what the server accepted from a push.
type Applied struct {
	Blocks        []string `json:"blocks"`
	TomorrowTasks []string `json:"tomorrowTasks"`
	Settings      bool     `json:"settings"`
}

// ConflictReport describes one write-write conflict detected during a push.
// The server has already effected the keep-both rule; the report lets the
// client flag the record and surface it to the user.
type ConflictReport struct {
	// Type is the record kind, "block" or "tomorrowTask".
	Type string `json:"type"`

	// ID is the identifier the client tried to write.
	ID string `json:"id"`

	LocalVersion  int64 `json:"localVersion"`
	ServerVersion int64 `json:"serverVersion"`
}

// PushResponse reports the outcome of a push batch.
type PushResponse struct {
	Success   bool             `json:"success"`
	Applied   Applied          `json:"applied"`
	Conflicts []ConflictReport `json:"conflicts"`
}

// PullResponse carries the incremental (or full) delta for one user.
// Tombstones are included on incremental pulls so deletions propagate.
type PullResponse struct {
	Blocks        []Block          `json:"blocks"`
	TomorrowTasks []TomorrowTask   `json:"tomorrowTasks"`
	Settings      *Settings        `json:"settings"`
	Conflicts     []ConflictReport `json:"conflicts"`

	// SyncedAt is the server's current time. The client stores it and
	// sends it back as the next pull's since cursor.
	SyncedAt time.Time `json:"syncedAt"`
}

// SyncState is the client's persisted replication bookmark.
type SyncState struct {
	// LastSyncedAt is the server timestamp of the last successful pull.
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`

	// ServerCursor is reserved for a future opaque cursor scheme.
	ServerCursor string `json:"serverCursor,omitempty"`

	// ClientID is the stable per-installation identifier.
	ClientID string `json:"clientId"`

	// SettingsDirty marks a local settings change not yet pushed.
	SettingsDirty bool `json:"settingsDirty,omitempty"`
}

// LocalBlock is a block as persisted in the client replica: the wire record
// plus the local-only lifecycle envelope.
type LocalBlock struct {
	Block

	SyncStatus SyncStatus `json:"syncStatus"`

	// ServerVersion is the last version the server confirmed for this
	// record, or 0 when the record has never been accepted.
	ServerVersion int64 `json:"serverVersion"`
}

// LocalTask is a tomorrow task as persisted in the client replica.
type LocalTask struct {
	TomorrowTask

	SyncStatus    SyncStatus `json:"syncStatus"`
	ServerVersion int64      `json:"serverVersion"`
}
