package validators

import "errors"

var (
	// ErrEmptyClientID is returned when a push payload does not identify
	// the pushing installation.
	ErrEmptyClientID = errors.New("client id is required")

	// ErrEmptyRecordID is returned when a record in a push payload has no
	// identifier.
	ErrEmptyRecordID = errors.New("record id is required")

	// ErrInvalidVersion is returned when the version field of a record is
	// negative.
	ErrInvalidVersion = errors.New("invalid version")

	// ErrInvalidTheme is returned when the settings theme is not one of
	// the recognized values.
	ErrInvalidTheme = errors.New("invalid theme")

	// ErrInvalidDayCutHour is returned when the settings day-cut hour
	// falls outside [0,23].
	ErrInvalidDayCutHour = errors.New("day cut hour out of range")

	// ErrInvalidResolution is returned when a conflict resolution verdict
	// is not one of the recognized values.
	ErrInvalidResolution = errors.New("invalid resolution")

	// ErrEmptyConflictID is returned when a resolve request does not name
	// a conflict row.
	ErrEmptyConflictID = errors.New("conflict id is required")
)
