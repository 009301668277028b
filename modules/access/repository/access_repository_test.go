package repository_test

import (
	"context"
	"regexp"
	"testing"

	"calendar-api/core/database"
	"calendar-api/modules/access/entity"
	"calendar-api/modules/access/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (repository.AccessRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewAccessRepository(database.New(sqlx.NewDb(db, "postgres"))), mock
}

func TestGetCalendarRef(t *testing.T) {
	repo, mock := newMockRepo(t)
	calendarID, ownerID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, is_main, is_holiday FROM calendars WHERE id = $1")).
		WithArgs(calendarID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "is_main", "is_holiday"}).
			AddRow(calendarID.String(), ownerID.String(), true, false))

	ref, err := repo.GetCalendarRef(context.Background(), calendarID)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, ownerID, ref.OwnerID)
	assert.True(t, ref.IsMain)
	assert.False(t, ref.IsHoliday)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCalendarRef_Missing(t *testing.T) {
	repo, mock := newMockRepo(t)
	calendarID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendars WHERE id = $1")).
		WithArgs(calendarID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "is_main", "is_holiday"}))

	ref, err := repo.GetCalendarRef(context.Background(), calendarID)
	require.NoError(t, err)
	assert.Nil(t, ref)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetParticipantRole(t *testing.T) {
	repo, mock := newMockRepo(t)
	calendarID, userID, strangerID := uuid.New(), uuid.New(), uuid.New()
	query := regexp.QuoteMeta("SELECT role FROM calendar_participants WHERE calendar_id = $1 AND user_id = $2")

	mock.ExpectQuery(query).
		WithArgs(calendarID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"role"}).AddRow("creator"))
	mock.ExpectQuery(query).
		WithArgs(calendarID, strangerID).
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	role, err := repo.GetParticipantRole(context.Background(), calendarID, userID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, entity.RoleCreator, *role)

	role, err = repo.GetParticipantRole(context.Background(), calendarID, strangerID)
	require.NoError(t, err)
	assert.Nil(t, role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetParticipantRole_QueryError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM calendar_participants")).
		WillReturnError(assert.AnError)

	role, err := repo.GetParticipantRole(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, role)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveOwningCalendar(t *testing.T) {
	repo, mock := newMockRepo(t)
	eventID, categoryID, calendarID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT calendar_id FROM events WHERE id = $1")).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"calendar_id"}).AddRow(calendarID.String()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT calendar_id FROM event_categories WHERE id = $1")).
		WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"calendar_id"}))

	got, err := repo.GetEventCalendarID(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, calendarID, got)

	got, err = repo.GetCategoryCalendarID(context.Background(), categoryID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsEventParticipant(t *testing.T) {
	repo, mock := newMockRepo(t)
	eventID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)")).
		WithArgs(eventID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.IsEventParticipant(context.Background(), eventID, userID)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
