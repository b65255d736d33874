package store

import (
	"context"
	"fmt"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/models"
)

// conflictRepository is the PostgreSQL-backed implementation of
// [ConflictRepository].
type conflictRepository struct {
	*DB
	logger *logger.Logger
}

// NewConflictRepository constructs a [ConflictRepository] backed by the
// provided database connection and logger.
func NewConflictRepository(db *DB, logger *logger.Logger) ConflictRepository {
	return &conflictRepository{
		DB:     db,
		logger: logger,
	}
}

func (c *conflictRepository) Insert(ctx context.Context, q Querier, conflict models.Conflict) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, insertConflict,
		conflict.ID,
		conflict.UserID,
		conflict.RecordType,
		conflict.RecordID,
		conflict.LocalVersion,
		conflict.ServerVersion,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateRecord
		}
		log.Err(err).
			Str("func", "conflictRepository.Insert").
			Str("id", conflict.ID).
			Int64("user_id", conflict.UserID).
			Msg("failed to insert conflict")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (c *conflictRepository) Resolve(ctx context.Context, userID int64, conflictID string, resolution models.Resolution) error {
	log := logger.FromContext(ctx)

	res, err := c.DB.ExecContext(ctx, resolveConflict, conflictID, userID, resolution)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.Resolve").
			Str("conflict_id", conflictID).
			Int64("user_id", userID).
			Msg("failed to resolve conflict")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrConflictNotFound
	}

	return nil
}

func (c *conflictRepository) ListUnresolved(ctx context.Context, userID int64) ([]models.Conflict, error) {
	log := logger.FromContext(ctx)

	rows, err := c.DB.QueryContext(ctx, listUnresolvedConflicts, userID)
	if err != nil {
		log.Err(err).
			Str("func", "conflictRepository.ListUnresolved").
			Int64("user_id", userID).
			Msg("failed to query conflicts")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Conflict, 0, 10)

	for rows.Next() {
		var conflict models.Conflict

		scanErr := rows.Scan(
			&conflict.ID,
			&conflict.UserID,
			&conflict.RecordType,
			&conflict.RecordID,
			&conflict.LocalVersion,
			&conflict.ServerVersion,
			&conflict.Resolution,
			&conflict.CreatedAt,
			&conflict.ResolvedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "conflictRepository.ListUnresolved").
				Int64("user_id", userID).
				Msg("failed to scan conflict row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, conflict)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
