package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	upsertUserByProvider = `
		INSERT INTO users (provider_id, email, name, image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider_id) DO UPDATE
			SET email = EXCLUDED.email,
			    name  = EXCLUDED.name,
			    image = EXCLUDED.image
		RETURNING user_id, provider_id, email, name, image, created_at;`

	findUserByID = `
		SELECT user_id, provider_id, email, name, image, created_at
		FROM users
		WHERE user_id = $1;`

	getBlock = `
		SELECT id, user_id, body, created_at, position, version, updated_at, deleted_at, client_id, calendar_event_id
		FROM blocks
		WHERE id = $1;`

	insertBlock = `
		INSERT INTO blocks (id, user_id, body, created_at, position, version, updated_at, deleted_at, client_id, calendar_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), $7, $8, $9)
		ON CONFLICT (id) DO NOTHING;`

	updateBlock = `
		UPDATE blocks
		SET body = $2,
		    position = $3,
		    version = $4,
		    updated_at = NOW(),
		    deleted_at = $5,
		    client_id = $6,
		    calendar_event_id = $7
		WHERE id = $1;`

	getTask = `
		SELECT id, user_id, body, task_time, position, version, created_at, updated_at, deleted_at, client_id
		FROM tomorrow_tasks
		WHERE id = $1;`

	insertTask = `
		INSERT INTO tomorrow_tasks (id, user_id, body, task_time, position, version, created_at, updated_at, deleted_at, client_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8, $9)
		ON CONFLICT (id) DO NOTHING;`

	updateTask = `
		UPDATE tomorrow_tasks
		SET body = $2,
		    task_time = $3,
		    position = $4,
		    version = $5,
		    updated_at = NOW(),
		    deleted_at = $6,
		    client_id = $7
		WHERE id = $1;`

	upsertSettings = `
		INSERT INTO settings (user_id, theme, day_cut_hour, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
			SET theme = EXCLUDED.theme,
			    day_cut_hour = EXCLUDED.day_cut_hour,
			    updated_at = EXCLUDED.updated_at;`

	getSettings = `
		SELECT user_id, theme, day_cut_hour, updated_at
		FROM settings
		WHERE user_id = $1;`

	insertConflict = `
		INSERT INTO conflicts (id, user_id, record_type, record_id, local_version, server_version)
		VALUES ($1, $2, $3, $4, $5, $6);`

	resolveConflict = `
		UPDATE conflicts
		SET resolution = $3, resolved_at = NOW()
		WHERE id = $1 AND user_id = $2 AND resolved_at IS NULL;`

	listUnresolvedConflicts = `
		SELECT id, user_id, record_type, record_id, local_version, server_version, resolution, created_at, resolved_at
		FROM conflicts
		WHERE user_id = $1 AND resolved_at IS NULL
		ORDER BY created_at DESC;`
)

const (
	blockColumns = "id, user_id, body, created_at, position, version, updated_at, deleted_at, client_id, calendar_event_id"
	taskColumns  = "id, user_id, body, task_time, position, version, created_at, updated_at, deleted_at, client_id"
)

// buildListSinceQuery builds the incremental pull query for the given table:
// every record of the user touched strictly after since, tombstones
// included. The zero since value degenerates to "from epoch".
func buildListSinceQuery(table, columns, orderBy string, userID int64, since time.Time) (string, []any, error) {
	builder := sq.Select(columns).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		OrderBy(orderBy).
		PlaceholderFormat(sq.Dollar)

	if !since.IsZero() {
		builder = builder.Where(sq.Gt{"updated_at": since})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}

// buildListActiveQuery builds the full-sync query for the given table: every
// live (non-tombstoned) record of the user.
func buildListActiveQuery(table, columns, orderBy string, userID int64) (string, []any, error) {
	query, args, err := sq.Select(columns).
		From(table).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"deleted_at": nil}).
		OrderBy(orderBy).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
