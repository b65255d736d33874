package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbccc/znote/internal/logger"
	"github.com/jbccc/znote/models"
)

func newBlockRepoForTest(t *testing.T) (BlockRepository, *DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := &DB{DB: conn}
	return NewBlockRepository(db, logger.Nop()), db, mock
}

var blockRows = []string{
	"id", "user_id", "body", "created_at", "position", "version",
	"updated_at", "deleted_at", "client_id", "calendar_event_id",
}

func TestBlockRepository_Get(t *testing.T) {
	repo, db, mock := newBlockRepoForTest(t)

	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, body, created_at, position, version, updated_at, deleted_at, client_id, calendar_event_id")).
		WithArgs("b1").
		WillReturnRows(sqlmock.NewRows(blockRows).
			AddRow("b1", int64(7), "hello", createdAt, 0, int64(2), updatedAt, nil, "c1", nil))

	block, err := repo.Get(context.Background(), db.DB, "b1")
	require.NoError(t, err)

	assert.Equal(t, "b1", block.ID)
	assert.Equal(t, int64(7), block.UserID)
	assert.Equal(t, "hello", block.Text)
	assert.Equal(t, int64(2), block.Version)
	assert.Nil(t, block.DeletedAt)
	assert.Nil(t, block.CalendarEventID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository_Get_NotFound(t *testing.T) {
	repo, db, mock := newBlockRepoForTest(t)

	mock.ExpectQuery("SELECT").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(blockRows))

	_, err := repo.Get(context.Background(), db.DB, "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository_Insert(t *testing.T) {
	repo, db, mock := newBlockRepoForTest(t)

	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	block := models.Block{
		ID:        "b1",
		UserID:    7,
		Text:      "hello",
		CreatedAt: createdAt,
		Version:   2,
		ClientID:  "c1",
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blocks")).
		WithArgs("b1", int64(7), "hello", createdAt, 0, int64(2), nil, "c1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), db.DB, block))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository_Insert_DuplicateRace(t *testing.T) {
	repo, db, mock := newBlockRepoForTest(t)

	// ON CONFLICT DO NOTHING swallows the violation; zero affected rows
	// reports the lost race.
	mock.ExpectExec("INSERT INTO blocks").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Insert(context.Background(), db.DB, models.Block{ID: "b1", UserID: 7})
	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository_ListSince(t *testing.T) {
	repo, _, mock := newBlockRepoForTest(t)

	since := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	createdAt := since.Add(-time.Hour)
	deletedAt := since.Add(time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND updated_at > $2 ORDER BY created_at ASC, position ASC")).
		WithArgs(int64(7), since).
		WillReturnRows(sqlmock.NewRows(blockRows).
			AddRow("b1", int64(7), "live", createdAt, 0, int64(3), since.Add(time.Minute), nil, "c1", nil).
			AddRow("b2", int64(7), "gone", createdAt, 1, int64(4), since.Add(time.Minute), deletedAt, "c2", nil))

	blocks, err := repo.ListSince(context.Background(), 7, since)
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	// Tombstones ride the incremental delta so deletions propagate.
	assert.Nil(t, blocks[0].DeletedAt)
	require.NotNil(t, blocks[1].DeletedAt)
	assert.True(t, blocks[1].DeletedAt.Equal(deletedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository_ListSince_EpochCursorOmitsPredicate(t *testing.T) {
	repo, _, mock := newBlockRepoForTest(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 ORDER BY created_at ASC, position ASC")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(blockRows))

	blocks, err := repo.ListSince(context.Background(), 7, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, blocks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBlockRepository_ListActive_FiltersTombstones(t *testing.T) {
	repo, _, mock := newBlockRepoForTest(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND deleted_at IS NULL")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(blockRows))

	_, err := repo.ListActive(context.Background(), 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
