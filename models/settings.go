// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 jbccc

package models

import "time"

// Theme is a user interface color-scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Valid reports whether the theme is one of the recognized values.
func (t Theme) Valid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

// Settings holds the user's scalar preferences. There is exactly one row per
// user and no version counter: the newest UpdatedAt wins on the server.
type Settings struct {
	UserID int64 `json:"-"`

	Theme Theme `json:"theme"`

	// DayCutHour is the hour [0,23] at which the UI rolls tomorrow tasks
	// into the log. Opaque to the sync core beyond range validation.
	DayCutHour int `json:"dayCutHour"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultSettings returns the settings a fresh user starts with.
func DefaultSettings() Settings {
	return Settings{Theme: ThemeSystem, DayCutHour: 4}
}
