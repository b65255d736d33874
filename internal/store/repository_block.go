package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/models"
)

// blockRepository is the PostgreSQL-backed implementation of
// [BlockRepository]. Mutations run against the caller-supplied [Querier] so
// a push batch stays inside one transaction.
type blockRepository struct {
	*DB
	logger *logger.Logger
}

// NewBlockRepository constructs a [BlockRepository] backed by the provided
// database connection and logger.
func NewBlockRepository(db *DB, logger *logger.Logger) BlockRepository {
	return &blockRepository{
		DB:     db,
		logger: logger,
	}
}

func (b *blockRepository) Get(ctx context.Context, q Querier, id string) (models.Block, error) {
	var block models.Block
	err := q.QueryRowContext(ctx, getBlock, id).Scan(
		&block.ID,
		&block.UserID,
		&block.Text,
		&block.CreatedAt,
		&block.Position,
		&block.Version,
		&block.UpdatedAt,
		&block.DeletedAt,
		&block.ClientID,
		&block.CalendarEventID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Block{}, ErrRecordNotFound
	}
	if err != nil {
		return models.Block{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return block, nil
}

func (b *blockRepository) Insert(ctx context.Context, q Querier, block models.Block) error {
	log := logger.FromContext(ctx)

	res, err := q.ExecContext(ctx, insertBlock,
		block.ID,
		block.UserID,
		block.Text,
		block.CreatedAt,
		block.Position,
		block.Version,
		block.DeletedAt,
		block.ClientID,
		block.CalendarEventID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "blockRepository.Insert").
			Str("id", block.ID).
			Int64("user_id", block.UserID).
			Msg("failed to insert block")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	// ON CONFLICT DO NOTHING keeps the transaction usable when two clients
	// race to create the same id; zero affected rows signals the race.
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrDuplicateRecord
	}

	return nil
}

func (b *blockRepository) Update(ctx context.Context, q Querier, block models.Block) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, updateBlock,
		block.ID,
		block.Text,
		block.Position,
		block.Version,
		block.DeletedAt,
		block.ClientID,
		block.CalendarEventID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "blockRepository.Update").
			Str("id", block.ID).
			Int64("user_id", block.UserID).
			Msg("failed to update block")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (b *blockRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]models.Block, error) {
	query, args, err := buildListSinceQuery("blocks", blockColumns, "created_at ASC, position ASC", userID, since)
	if err != nil {
		return nil, err
	}

	return b.list(ctx, query, args, userID)
}

func (b *blockRepository) ListActive(ctx context.Context, userID int64) ([]models.Block, error) {
	query, args, err := buildListActiveQuery("blocks", blockColumns, "created_at ASC, position ASC", userID)
	if err != nil {
		return nil, err
	}

	return b.list(ctx, query, args, userID)
}

func (b *blockRepository) list(ctx context.Context, query string, args []any, userID int64) ([]models.Block, error) {
	log := logger.FromContext(ctx)

	rows, err := b.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "blockRepository.list").
			Int64("user_id", userID).
			Msg("failed to execute block list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.Block, 0, 50)

	for rows.Next() {
		var block models.Block

		scanErr := rows.Scan(
			&block.ID,
			&block.UserID,
			&block.Text,
			&block.CreatedAt,
			&block.Position,
			&block.Version,
			&block.UpdatedAt,
			&block.DeletedAt,
			&block.ClientID,
			&block.CalendarEventID,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "blockRepository.list").
				Int64("user_id", userID).
				Msg("failed to scan block row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, block)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "blockRepository.list").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
