// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package models

import "time"

// TomorrowTask is an item in the user's next-day queue. It carries the same
// sync metadata envelope as [Block] plus an optional HH:MM time-of-day tag.
type TomorrowTask struct {
	ID     string `json:"id"`
	UserID int64  `json:"-"`
	Text   string `json:"text"`

	// Time is an optional "HH:MM" string. Opaque to the sync core.
	Time *string `json:"time,omitempty"`

	Position  int        `json:"position"`
	Version   int64      `json:"version"`
	CreatedAt time.Time  `json:"-"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	ClientID  string     `json:"clientId,omitempty"`
}

// Deleted reports whether the task is a tombstone.
func (t TomorrowTask) Deleted() bool {
	return t.DeletedAt != nil
}

// TomorrowTaskChange is a partial task mutation. Only non-nil fields are
// applied.
type TomorrowTaskChange struct {
	ID       string  `json:"id"`
	Text     *string `json:"text,omitempty"`
	Time     *string `json:"time,omitempty"`
	Position *int    `json:"position,omitempty"`
}
