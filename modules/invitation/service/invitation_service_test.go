package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"calendar-api/core/errors"
	"calendar-api/core/queue"
	"calendar-api/internal/testutil"
	accessEntity "calendar-api/modules/access/entity"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/invitation/dto"
	"calendar-api/modules/invitation/service"
	notifEntity "calendar-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *testutil.Store
	clock    *testutil.Clock
	enqueuer *testutil.Enqueuer
	notifier *testutil.Notifier
	svc      *service.InvitationService

	owner uuid.UUID
	admin uuid.UUID
	bob   uuid.UUID
	carol uuid.UUID
	calID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := testutil.NewClock(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	store := testutil.NewStore(clock)
	f := &fixture{
		store:    store,
		clock:    clock,
		enqueuer: &testutil.Enqueuer{},
		notifier: &testutil.Notifier{},
		owner:    store.AddUser("owner", "owner@example.com"),
		admin:    store.AddUser("admin", "admin@example.com"),
		bob:      store.AddUser("bob", "bob@example.com"),
		carol:    store.AddUser("carol", "carol@example.com"),
	}
	f.calID = store.AddCalendar(f.owner, "Team", false, false).ID
	store.AddParticipant(f.calID, f.admin, accessEntity.RoleAdmin)

	f.svc = service.NewInvitationService(service.Dependencies{
		Repo:         store.InvitationRepo(),
		Access:       accessService.NewAccessService(store.AccessRepo()),
		Calendars:    store.CalendarRepo(),
		Participants: store.ParticipantRepo(),
		Events:       store.EventRepo(),
		Enqueuer:     f.enqueuer,
		Notifier:     f.notifier,
		Clock:        clock,
		Settings:     service.Settings{LinkBaseURL: "https://app.example.com/"},
	})
	return f
}

func ptr[T any](v T) *T { return &v }

func (f *fixture) createLink(t *testing.T, role string, days *int) *dto.InviteLinkResponse {
	t.Helper()
	req := &dto.CreateInviteLinkRequest{ExpireInDays: days}
	if role != "" {
		req.Role = &role
	}
	link, appErr := f.svc.CreateInviteLink(context.Background(), f.owner, f.calID, req)
	require.Nil(t, appErr)
	return link
}

// ===================== Invite links =====================

func TestCreateInviteLink(t *testing.T) {
	f := newFixture(t)

	link := f.createLink(t, "", ptr(1))

	assert.Equal(t, string(accessEntity.RoleReader), link.Role)
	assert.Equal(t, "https://app.example.com/calendar-invites/"+link.ID, link.URL)
	require.NotNil(t, link.ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(24*time.Hour), *link.ExpiresAt)
	assert.False(t, link.IsExpired)
}

func TestCreateInviteLink_NoExpiry(t *testing.T) {
	f := newFixture(t)

	link := f.createLink(t, "creator", nil)

	assert.Nil(t, link.ExpiresAt)
	assert.Equal(t, "creator", link.Role)
}

func TestCreateInviteLink_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, appErr := f.svc.CreateInviteLink(ctx, f.owner, f.calID, &dto.CreateInviteLinkRequest{ExpireInDays: ptr(0)})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	_, appErr = f.svc.CreateInviteLink(ctx, f.owner, f.calID, &dto.CreateInviteLinkRequest{Role: ptr("owner")})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
}

func TestCreateInviteLink_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddParticipant(f.calID, f.bob, accessEntity.RoleCreator)

	_, appErr := f.svc.CreateInviteLink(ctx, f.bob, f.calID, &dto.CreateInviteLinkRequest{})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	_, appErr = f.svc.CreateInviteLink(ctx, f.admin, f.calID, &dto.CreateInviteLinkRequest{})
	assert.Nil(t, appErr)
}

func TestAcceptInviteLink_JoinsOnceAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.createLink(t, "creator", nil)

	first, appErr := f.svc.AcceptInviteLink(ctx, f.bob, link.ID, nil)
	require.Nil(t, appErr)
	assert.False(t, first.AlreadyMember)
	assert.Equal(t, "creator", first.Role)

	second, appErr := f.svc.AcceptInviteLink(ctx, f.bob, link.ID, nil)
	require.Nil(t, appErr)
	assert.True(t, second.AlreadyMember)
	assert.Equal(t, "creator", second.Role)

	assert.Equal(t, 2, f.store.ParticipantCount(f.calID))
	assert.Len(t, f.notifier.OfType(notifEntity.TypeParticipantJoined), 1)
}

func TestAcceptInviteLink_IsReusableAcrossUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.createLink(t, "", nil)

	_, appErr := f.svc.AcceptInviteLink(ctx, f.bob, link.ID, nil)
	require.Nil(t, appErr)
	_, appErr = f.svc.AcceptInviteLink(ctx, f.carol, link.ID, nil)
	require.Nil(t, appErr)

	assert.NotNil(t, f.store.Participant(f.calID, f.bob))
	assert.NotNil(t, f.store.Participant(f.calID, f.carol))
}

func TestAcceptInviteLink_OwnerIsNoop(t *testing.T) {
	f := newFixture(t)
	link := f.createLink(t, "", nil)

	resp, appErr := f.svc.AcceptInviteLink(context.Background(), f.owner, link.ID, nil)
	require.Nil(t, appErr)
	assert.True(t, resp.AlreadyMember)
	assert.Equal(t, "owner", resp.Role)
	assert.Nil(t, f.store.Participant(f.calID, f.owner))
}

func TestAcceptInviteLink_ExistingRoleIsKept(t *testing.T) {
	f := newFixture(t)
	link := f.createLink(t, "reader", nil)

	resp, appErr := f.svc.AcceptInviteLink(context.Background(), f.admin, link.ID, nil)
	require.Nil(t, appErr)
	assert.True(t, resp.AlreadyMember)
	assert.Equal(t, accessEntity.RoleAdmin, f.store.Participant(f.calID, f.admin).Role)
}

func TestAcceptInviteLink_RoleOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.createLink(t, "creator", nil)

	_, appErr := f.svc.AcceptInviteLink(ctx, f.bob, link.ID, &dto.AcceptInviteLinkRequest{Role: ptr("admin")})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Nil(t, f.store.Participant(f.calID, f.bob))

	resp, appErr := f.svc.AcceptInviteLink(ctx, f.bob, link.ID, &dto.AcceptInviteLinkRequest{Role: ptr("reader")})
	require.Nil(t, appErr)
	assert.Equal(t, "reader", resp.Role)
	assert.Equal(t, accessEntity.RoleReader, f.store.Participant(f.calID, f.bob).Role)
}

func TestAcceptInviteLink_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.createLink(t, "", ptr(1))

	f.clock.Advance(24 * time.Hour)
	_, appErr := f.svc.GetInviteLinkInfo(ctx, f.bob, link.ID)
	require.Nil(t, appErr, "a link is still valid at its exact expiry instant")

	f.clock.Advance(time.Second)
	_, appErr = f.svc.AcceptInviteLink(ctx, f.bob, link.ID, nil)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInviteExpired, appErr.Code)

	_, appErr = f.svc.GetInviteLinkInfo(ctx, f.bob, link.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInviteExpired, appErr.Code)
}

func TestAcceptInviteLink_Unknown(t *testing.T) {
	f := newFixture(t)

	_, appErr := f.svc.AcceptInviteLink(context.Background(), f.bob, "missing", nil)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestGetInviteLinkInfo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.createLink(t, "creator", nil)

	info, appErr := f.svc.GetInviteLinkInfo(ctx, f.bob, link.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "Team", info.CalendarName)
	assert.Equal(t, "owner", info.InvitedBy)
	assert.Equal(t, "creator", info.Role)
	assert.False(t, info.IsMember)

	info, appErr = f.svc.GetInviteLinkInfo(ctx, f.admin, link.ID)
	require.Nil(t, appErr)
	assert.True(t, info.IsMember)
}

func TestRevokeInviteLink(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	link := f.createLink(t, "", nil)

	links, appErr := f.svc.ListInviteLinks(ctx, f.owner, f.calID)
	require.Nil(t, appErr)
	require.Len(t, links, 1)

	require.Nil(t, f.svc.RevokeInviteLink(ctx, f.owner, f.calID, link.ID))

	appErr = f.svc.RevokeInviteLink(ctx, f.owner, f.calID, link.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	_, appErr = f.svc.AcceptInviteLink(ctx, f.bob, link.ID, nil)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

// ===================== Calendar email invites =====================

func (f *fixture) inviteByEmail(t *testing.T, role string, emails ...string) []*dto.CalendarEmailInviteResponse {
	t.Helper()
	req := &dto.CreateCalendarEmailInvitesRequest{Emails: emails}
	if role != "" {
		req.Role = &role
	}
	out, appErr := f.svc.CreateCalendarEmailInvites(context.Background(), f.owner, f.calID, req)
	require.Nil(t, appErr)
	return out
}

func TestCreateCalendarEmailInvites_NormalizesAndQueues(t *testing.T) {
	f := newFixture(t)

	out := f.inviteByEmail(t, "creator", " Bob@Example.com", "bob@example.com", "new@example.com")

	require.Len(t, out, 2)
	assert.Equal(t, "bob@example.com", out[0].Email)
	assert.Equal(t, "new@example.com", out[1].Email)
	require.NotNil(t, out[0].ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(7*24*time.Hour), *out[0].ExpiresAt)

	require.Len(t, f.enqueuer.Tasks, 2)
	task := f.enqueuer.Tasks[0]
	assert.Equal(t, queue.TypeCalendarInviteEmail, task.Type)
	assert.Equal(t, "Team", task.Payload.TargetName)
	assert.Equal(t, "owner", task.Payload.InvitedBy)
	assert.Equal(t, "creator", task.Payload.Role)
	assert.NotEmpty(t, task.Payload.Token)
}

func TestCreateCalendarEmailInvites_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, appErr := f.svc.CreateCalendarEmailInvites(ctx, f.owner, f.calID, &dto.CreateCalendarEmailInvitesRequest{Emails: []string{"not-an-email"}})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)

	_, appErr = f.svc.CreateCalendarEmailInvites(ctx, f.owner, f.calID, &dto.CreateCalendarEmailInvitesRequest{Emails: []string{" "}})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInvalidInput, appErr.Code)
	assert.Empty(t, f.enqueuer.Tasks)
}

func TestCreateCalendarEmailInvites_EnqueueFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture(t)
	f.enqueuer.Err = assert.AnError

	out := f.inviteByEmail(t, "", "bob@example.com")
	assert.Len(t, out, 1)
}

func TestAcceptCalendarEmailInvite_SingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.inviteByEmail(t, "creator", "bob@example.com")
	token := f.enqueuer.Tasks[0].Payload.Token

	info, appErr := f.svc.GetCalendarEmailInviteInfo(ctx, token)
	require.Nil(t, appErr)
	assert.Equal(t, "Team", info.CalendarName)
	assert.Equal(t, "bob@example.com", info.Email)

	resp, appErr := f.svc.AcceptCalendarEmailInvite(ctx, f.bob, token)
	require.Nil(t, appErr)
	assert.Equal(t, "creator", resp.Role)
	assert.False(t, resp.AlreadyMember)
	assert.Equal(t, accessEntity.RoleCreator, f.store.Participant(f.calID, f.bob).Role)
	assert.Len(t, f.notifier.OfType(notifEntity.TypeEmailInviteAccepted), 1)

	_, appErr = f.svc.AcceptCalendarEmailInvite(ctx, f.bob, token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	_, appErr = f.svc.GetCalendarEmailInviteInfo(ctx, token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestAcceptCalendarEmailInvite_EmailMismatch(t *testing.T) {
	f := newFixture(t)
	f.inviteByEmail(t, "", "bob@example.com")
	token := f.enqueuer.Tasks[0].Payload.Token

	_, appErr := f.svc.AcceptCalendarEmailInvite(context.Background(), f.carol, token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
	assert.Nil(t, f.store.Participant(f.calID, f.carol))
	assert.Equal(t, "pending", string(f.store.CalendarEmailInviteByEmail("bob@example.com").Status))
}

func TestAcceptCalendarEmailInvite_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, appErr := f.svc.CreateCalendarEmailInvites(ctx, f.owner, f.calID, &dto.CreateCalendarEmailInvitesRequest{
		Emails:       []string{"bob@example.com"},
		ExpireInDays: ptr(1),
	})
	require.Nil(t, appErr)
	token := f.enqueuer.Tasks[0].Payload.Token

	f.clock.Advance(25 * time.Hour)

	_, appErr = f.svc.GetCalendarEmailInviteInfo(ctx, token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInviteExpired, appErr.Code)

	_, appErr = f.svc.AcceptCalendarEmailInvite(ctx, f.bob, token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrInviteExpired, appErr.Code)
}

func TestAcceptCalendarEmailInvite_ExistingParticipantKeepsRole(t *testing.T) {
	f := newFixture(t)
	f.store.AddParticipant(f.calID, f.bob, accessEntity.RoleAdmin)
	f.inviteByEmail(t, "reader", "bob@example.com")
	token := f.enqueuer.Tasks[0].Payload.Token

	resp, appErr := f.svc.AcceptCalendarEmailInvite(context.Background(), f.bob, token)
	require.Nil(t, appErr)
	assert.True(t, resp.AlreadyMember)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, accessEntity.RoleAdmin, f.store.Participant(f.calID, f.bob).Role)
}

func TestRevokeCalendarEmailInvite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.inviteByEmail(t, "", "bob@example.com")

	pending, appErr := f.svc.ListCalendarEmailInvites(ctx, f.owner, f.calID)
	require.Nil(t, appErr)
	require.Len(t, pending, 1)

	require.Nil(t, f.svc.RevokeCalendarEmailInvite(ctx, f.owner, f.calID, out[0].ID))

	_, appErr = f.svc.AcceptCalendarEmailInvite(ctx, f.bob, f.enqueuer.Tasks[0].Payload.Token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

// ===================== Event email invites =====================

func TestEventEmailInvite_AcceptMakesConfirmedParticipant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.clock.Now().Add(48 * time.Hour)
	event := f.store.AddEvent(f.calID, f.owner, "Launch", start, start.Add(time.Hour))

	out, appErr := f.svc.CreateEventEmailInvites(ctx, f.owner, event.ID, &dto.CreateEventEmailInvitesRequest{
		Emails: []string{"carol@example.com", "outsider@example.com"},
	})
	require.Nil(t, appErr)
	require.Len(t, out, 2)
	assert.True(t, out[0].IsRegistered)
	assert.False(t, out[1].IsRegistered)

	require.Len(t, f.enqueuer.Tasks, 2)
	task := f.enqueuer.Tasks[0]
	assert.Equal(t, queue.TypeEventInviteEmail, task.Type)
	require.NotNil(t, task.Payload.StartsAt)
	assert.Equal(t, start, *task.Payload.StartsAt)

	info, appErr := f.svc.GetEventEmailInviteInfo(ctx, task.Payload.Token)
	require.Nil(t, appErr)
	assert.Equal(t, "Launch", info.EventTitle)

	resp, appErr := f.svc.AcceptEventEmailInvite(ctx, f.carol, task.Payload.Token)
	require.Nil(t, appErr)
	assert.Equal(t, event.ID, resp.EventID)
	assert.Equal(t, f.calID, resp.CalendarID)

	participant := f.store.EventParticipant(event.ID, f.carol)
	require.NotNil(t, participant)
	assert.True(t, participant.HasConfirmed)
	assert.Nil(t, f.store.Participant(f.calID, f.carol), "event invites do not grant calendar access")
	assert.Len(t, f.notifier.OfType(notifEntity.TypeEventInviteAccepted), 1)

	_, appErr = f.svc.AcceptEventEmailInvite(ctx, f.carol, task.Payload.Token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestEventEmailInvite_ReaderCannotInvite(t *testing.T) {
	f := newFixture(t)
	f.store.AddParticipant(f.calID, f.bob, accessEntity.RoleReader)
	start := f.clock.Now().Add(time.Hour)
	event := f.store.AddEvent(f.calID, f.owner, "Launch", start, start.Add(time.Hour))

	_, appErr := f.svc.CreateEventEmailInvites(context.Background(), f.bob, event.ID, &dto.CreateEventEmailInvitesRequest{
		Emails: []string{"carol@example.com"},
	})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestEventEmailInvite_EmailMismatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.clock.Now().Add(time.Hour)
	event := f.store.AddEvent(f.calID, f.owner, "Launch", start, start.Add(time.Hour))
	_, appErr := f.svc.CreateEventEmailInvites(ctx, f.owner, event.ID, &dto.CreateEventEmailInvitesRequest{
		Emails: []string{"carol@example.com"},
	})
	require.Nil(t, appErr)

	_, appErr = f.svc.AcceptEventEmailInvite(ctx, f.bob, f.enqueuer.Tasks[0].Payload.Token)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

// ===================== Maintenance =====================

func TestCleanupExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createLink(t, "", ptr(1))
	f.createLink(t, "", nil)
	_, appErr := f.svc.CreateCalendarEmailInvites(ctx, f.owner, f.calID, &dto.CreateCalendarEmailInvitesRequest{
		Emails:       []string{"bob@example.com"},
		ExpireInDays: ptr(1),
	})
	require.Nil(t, appErr)

	f.clock.Advance(2 * 24 * time.Hour)
	result, err := f.svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, result.Links, "expired invites are kept for the retention window")

	f.clock.Advance(30 * 24 * time.Hour)
	result, err = f.svc.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Links)
	assert.EqualValues(t, 1, result.CalendarEmails)

	links, appErr := f.svc.ListInviteLinks(ctx, f.owner, f.calID)
	require.Nil(t, appErr)
	require.Len(t, links, 1)
	assert.True(t, strings.HasSuffix(links[0].URL, links[0].ID))
}
