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

// taskRepository is the PostgreSQL-backed implementation of
// [TaskRepository].
type taskRepository struct {
	*DB
	logger *logger.Logger
}

// NewTaskRepository constructs a [TaskRepository] backed by the provided
// database connection and logger.
func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	return &taskRepository{
		DB:     db,
		logger: logger,
	}
}

func (t *taskRepository) Get(ctx context.Context, q Querier, id string) (models.TomorrowTask, error) {
	var task models.TomorrowTask
	err := q.QueryRowContext(ctx, getTask, id).Scan(
		&task.ID,
		&task.UserID,
		&task.Text,
		&task.Time,
		&task.Position,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
		&task.ClientID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TomorrowTask{}, ErrRecordNotFound
	}
	if err != nil {
		return models.TomorrowTask{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return task, nil
}

func (t *taskRepository) Insert(ctx context.Context, q Querier, task models.TomorrowTask) error {
	log := logger.FromContext(ctx)

	createdAt := task.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := q.ExecContext(ctx, insertTask,
		task.ID,
		task.UserID,
		task.Text,
		task.Time,
		task.Position,
		task.Version,
		createdAt,
		task.DeletedAt,
		task.ClientID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "taskRepository.Insert").
			Str("id", task.ID).
			Int64("user_id", task.UserID).
			Msg("failed to insert task")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrDuplicateRecord
	}

	return nil
}

func (t *taskRepository) Update(ctx context.Context, q Querier, task models.TomorrowTask) error {
	log := logger.FromContext(ctx)

	_, err := q.ExecContext(ctx, updateTask,
		task.ID,
		task.Text,
		task.Time,
		task.Position,
		task.Version,
		task.DeletedAt,
		task.ClientID,
	)
	if err != nil {
		log.Err(err).
			Str("func", "taskRepository.Update").
			Str("id", task.ID).
			Int64("user_id", task.UserID).
			Msg("failed to update task")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (t *taskRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]models.TomorrowTask, error) {
	query, args, err := buildListSinceQuery("tomorrow_tasks", taskColumns, "position ASC", userID, since)
	if err != nil {
		return nil, err
	}

	return t.list(ctx, query, args, userID)
}

func (t *taskRepository) ListActive(ctx context.Context, userID int64) ([]models.TomorrowTask, error) {
	query, args, err := buildListActiveQuery("tomorrow_tasks", taskColumns, "position ASC", userID)
	if err != nil {
		return nil, err
	}

	return t.list(ctx, query, args, userID)
}

func (t *taskRepository) list(ctx context.Context, query string, args []any, userID int64) ([]models.TomorrowTask, error) {
	log := logger.FromContext(ctx)

	rows, err := t.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "taskRepository.list").
			Int64("user_id", userID).
			Msg("failed to execute task list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	results := make([]models.TomorrowTask, 0, 20)

	for rows.Next() {
		var task models.TomorrowTask

		scanErr := rows.Scan(
			&task.ID,
			&task.UserID,
			&task.Text,
			&task.Time,
			&task.Position,
			&task.Version,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.DeletedAt,
			&task.ClientID,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "taskRepository.list").
				Int64("user_id", userID).
				Msg("failed to scan task row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		results = append(results, task)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "taskRepository.list").
			Int64("user_id", userID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}
