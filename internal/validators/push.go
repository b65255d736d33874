// Package validators checks inbound sync payloads before they reach the
// service layer. Validation failures map to HTTP 400 at the transport
// boundary; they indicate a client bug, not a user error.
package validators

import (
	"fmt"

	"github.com/jbccc/znote/models"
)

// ValidatePushRequest checks the structural invariants of a push payload:
// a non-empty client ID, non-empty record IDs, non-negative versions, and
// an in-range settings document when one is present.
func ValidatePushRequest(req models.PushRequest) error {
	if req.ClientID == "" {
		return ErrEmptyClientID
	}

	for _, block := range req.Blocks {
		if block.ID == "" {
			return fmt.Errorf("%w: block", ErrEmptyRecordID)
		}
		if block.Version < 0 {
			return fmt.Errorf("%w: block %s", ErrInvalidVersion, block.ID)
		}
	}

	for _, task := range req.TomorrowTasks {
		if task.ID == "" {
			return fmt.Errorf("%w: tomorrow task", ErrEmptyRecordID)
		}
		if task.Version < 0 {
			return fmt.Errorf("%w: tomorrow task %s", ErrInvalidVersion, task.ID)
		}
	}

	if req.Settings != nil {
		if err := ValidateSettings(*req.Settings); err != nil {
			return err
		}
	}

	return nil
}

// ValidateSettings checks the scalar preference ranges.
func ValidateSettings(settings models.Settings) error {
	if !settings.Theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, settings.Theme)
	}
	if settings.DayCutHour < 0 || settings.DayCutHour > 23 {
		return fmt.Errorf("%w: %d", ErrInvalidDayCutHour, settings.DayCutHour)
	}

	return nil
}

// ValidateResolveConflictRequest checks a conflict resolution payload.
func ValidateResolveConflictRequest(req models.ResolveConflictRequest) error {
	if req.ConflictID == "" {
		return ErrEmptyConflictID
	}
	if !req.Resolution.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidResolution, req.Resolution)
	}

	return nil
}
