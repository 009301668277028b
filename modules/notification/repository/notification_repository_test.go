package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"calendar-api/core/database"
	"calendar-api/core/params"
	"calendar-api/modules/notification/entity"
	"calendar-api/modules/notification/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*repository.NotificationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewNotificationRepository(database.New(sqlx.NewDb(db, "postgres"))), mock
}

func TestListForUser_Filters(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	calendarID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false AND type = $2 AND data->>'calendar_id' = $3")).
		WithArgs(userID, entity.TypeRoleChanged, calendarID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $4 OFFSET $5")).
		WithArgs(userID, entity.TypeRoleChanged, calendarID.String(), 10, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "type", "data", "is_read", "created_at", "updated_at"}).
			AddRow(uuid.New().String(), userID.String(), "Role changed", "You are now an admin of Team", entity.TypeRoleChanged,
				[]byte(`{"calendar_id":"`+calendarID.String()+`","role":"admin"}`), false, now, now))

	page, err := repo.ListForUser(context.Background(), userID,
		entity.ListFilter{UnreadOnly: true, Type: entity.TypeRoleChanged, CalendarID: &calendarID},
		params.QueryParams{PageNumber: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.TotalItems)
	assert.Equal(t, "admin", page.Items[0].Data["role"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUser_NoFilter(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE user_id = $1")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs(userID, 20, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "title", "message", "type", "data", "is_read", "created_at", "updated_at"}))

	page, err := repo.ListForUser(context.Background(), userID, entity.ListFilter{}, params.QueryParams{PageNumber: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAsRead_OnlyOwnRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New()}

	mock.ExpectExec(regexp.QuoteMeta("WHERE user_id = $1 AND is_read = false AND id IN ($2, $3)")).
		WithArgs(userID, ids[0], ids[1]).
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := repo.MarkAsRead(context.Background(), userID, ids)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	repo, mock := newMockRepo(t)
	userID, id := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE id = $1 AND user_id = $2")).
		WithArgs(id, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM notifications WHERE id = $1 AND user_id = $2")).
		WithArgs(id, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), userID, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), userID, id)
	require.NoError(t, err)
	assert.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}
