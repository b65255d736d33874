package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/models"
)

// settingsRepository is the PostgreSQL-backed implementation of
// [SettingsRepository]. Settings carry no version counter; the row is
// overwritten unconditionally and the newest UpdatedAt wins.
type settingsRepository struct {
	*DB
	logger *logger.Logger
}

// NewSettingsRepository constructs a [SettingsRepository] backed by the
// provided database connection and logger.
func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		DB:     db,
		logger: logger,
	}
}

func (s *settingsRepository) Upsert(ctx context.Context, q Querier, settings models.Settings) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, upsertSettings,
		settings.UserID,
		settings.Theme,
		settings.DayCutHour,
		settings.UpdatedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "settingsRepository.Upsert").
			Int64("user_id", settings.UserID).
			Msg("failed to upsert settings")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *settingsRepository) Get(ctx context.Context, userID int64) (models.Settings, error) {
	log := logger.FromContext(ctx)

	var settings models.Settings
	err := s.DB.QueryRowContext(ctx, getSettings, userID).Scan(
		&settings.UserID,
		&settings.Theme,
		&settings.DayCutHour,
		&settings.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, ErrRecordNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "settingsRepository.Get").
			Int64("user_id", userID).
			Msg("failed to query settings")
		return models.Settings{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return settings, nil
}
