// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package models

import "time"

// Resolution is the user's bookkeeping verdict on a persisted conflict.
// The actual data merge already happened at push time via the keep-both
// rule; resolving a conflict only records how the user reconciled it.
type Resolution string

const (
	ResolutionKeptLocal  Resolution = "kept_local"
	ResolutionKeptServer Resolution = "kept_server"
	ResolutionKeptBoth   Resolution = "kept_both"
)

// Valid reports whether the resolution is one of the recognized values.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionKeptLocal, ResolutionKeptServer, ResolutionKeptBoth:
		return true
	}
	return false
}

// Conflict is a persisted conflict report row.
type Conflict struct {
	ID            string     `json:"id"`
	UserID        int64      `json:"-"`
	RecordType    string     `json:"type"`
	RecordID      string     `json:"recordId"`
	LocalVersion  int64      `json:"localVersion"`
	ServerVersion int64      `json:"serverVersion"`
	Resolution    *Resolution `json:"resolution,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ResolvedAt    *time.Time `json:"resolvedAt,omitempty"`
}

// ResolveConflictRequest marks a persisted conflict row as resolved.
type ResolveConflictRequest struct {
	ConflictID string     `json:"conflictId"`
	Resolution Resolution `json:"resolution"`
}
