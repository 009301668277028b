package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"calendar-api/core/database"
	"calendar-api/modules/category/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (repository.CategoryRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewCategoryRepository(database.New(sqlx.NewDb(db, "postgres"))), mock
}

func TestCountEvents(t *testing.T) {
	repo, mock := newMockRepo(t)
	categoryID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE category_id = $1")).
		WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountEvents(context.Background(), categoryID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_ForeignKeyViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	categoryID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM event_categories WHERE id = $1")).
		WithArgs(categoryID).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), categoryID)
	require.Error(t, err)
	assert.True(t, database.IsForeignKeyViolation(err))
	assert.False(t, database.IsUniqueViolation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCalendar(t *testing.T) {
	repo, mock := newMockRepo(t)
	calendarID := uuid.New()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "calendar_id", "name", "color", "created_at", "updated_at"}).
		AddRow(uuid.New().String(), calendarID.String(), "General", "#3B82F6", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM event_categories")).
		WithArgs(calendarID).
		WillReturnRows(rows)

	categories, err := repo.ListByCalendar(context.Background(), calendarID)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "General", categories[0].Name)
	assert.Equal(t, calendarID, categories[0].CalendarID)
	require.NoError(t, mock.ExpectationsWereMet())
}
