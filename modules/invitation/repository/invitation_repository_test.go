package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"calendar-api/core/database"
	accessEntity "calendar-api/modules/access/entity"
	calendarEntity "calendar-api/modules/calendar/entity"
	"calendar-api/modules/invitation/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (repository.InvitationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return repository.NewInvitationRepository(database.New(sqlx.NewDb(db, "postgres"))), mock
}

func TestAcceptCalendarEmailInvite_ConsumesAndJoins(t *testing.T) {
	repo, mock := newMockRepo(t)
	inviteID, calendarID, userID := uuid.New(), uuid.New(), uuid.New()
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_email_invites")).
		WithArgs(now, userID, inviteID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calendar_participants")).
		WithArgs(sqlmock.AnyArg(), calendarID, userID, "creator", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	accepted, err := repo.AcceptCalendarEmailInvite(context.Background(), inviteID, &calendarEntity.Participant{
		CalendarID: calendarID,
		UserID:     userID,
		Role:       accessEntity.RoleCreator,
	}, now)
	require.NoError(t, err)
	assert.True(t, accepted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptCalendarEmailInvite_AlreadyUsed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $3 AND status = 'pending'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	accepted, err := repo.AcceptCalendarEmailInvite(context.Background(), uuid.New(), &calendarEntity.Participant{
		CalendarID: uuid.New(),
		UserID:     uuid.New(),
		Role:       accessEntity.RoleReader,
	}, time.Now())
	require.NoError(t, err)
	assert.False(t, accepted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptCalendarEmailInvite_RollsBackOnInsertError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE calendar_email_invites")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO calendar_participants")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	accepted, err := repo.AcceptCalendarEmailInvite(context.Background(), uuid.New(), &calendarEntity.Participant{
		CalendarID: uuid.New(),
		UserID:     uuid.New(),
		Role:       accessEntity.RoleReader,
	}, time.Now())
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, accepted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptEventEmailInvite_ConsumesAndConfirms(t *testing.T) {
	repo, mock := newMockRepo(t)
	inviteID, eventID, userID := uuid.New(), uuid.New(), uuid.New()
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_email_invites")).
		WithArgs(now, userID, inviteID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (event_id, user_id) DO UPDATE SET has_confirmed = TRUE")).
		WithArgs(sqlmock.AnyArg(), eventID, userID, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	accepted, err := repo.AcceptEventEmailInvite(context.Background(), inviteID, eventID, userID, now)
	require.NoError(t, err)
	assert.True(t, accepted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptEventEmailInvite_AlreadyUsed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_email_invites")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	accepted, err := repo.AcceptEventEmailInvite(context.Background(), uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.NoError(t, err)
	assert.False(t, accepted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptEventEmailInvite_RollsBackOnUpsertError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE event_email_invites")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO event_participants")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	accepted, err := repo.AcceptEventEmailInvite(context.Background(), uuid.New(), uuid.New(), uuid.New(), time.Now())
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, accepted)
	require.NoError(t, mock.ExpectationsWereMet())
}
