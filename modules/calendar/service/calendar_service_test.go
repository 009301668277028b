package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"calendar-api/core/errors"
	"calendar-api/internal/testutil"
	accessEntity "calendar-api/modules/access/entity"
	accessService "calendar-api/modules/access/service"
	"calendar-api/modules/calendar/dto"
	"calendar-api/modules/calendar/service"
	notifEntity "calendar-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *testutil.Store
	notifier *testutil.Notifier
	objects  *testutil.ObjectStore
	svc      *service.CalendarService

	alice uuid.UUID
	bob   uuid.UUID
	carol uuid.UUID
	dave  uuid.UUID

	mainID uuid.UUID
}

func newFixture(t *testing.T, withStore bool) *fixture {
	t.Helper()
	store := testutil.NewStore(nil)
	f := &fixture{
		store:    store,
		notifier: &testutil.Notifier{},
		objects:  &testutil.ObjectStore{},
		alice:    store.AddUser("alice", "alice@example.com"),
		bob:      store.AddUser("bob", "bob@example.com"),
		carol:    store.AddUser("carol", "carol@example.com"),
		dave:     store.AddUser("dave", "dave@example.com"),
	}
	f.mainID = store.AddCalendar(f.alice, "My calendar", true, false).ID

	deps := service.Dependencies{
		Calendars:    store.CalendarRepo(),
		Participants: store.ParticipantRepo(),
		Access:       accessService.NewAccessService(store.AccessRepo()),
		Events:       store.EventRepo(),
		Notifier:     f.notifier,
		Clock:        store.Clock,
	}
	if withStore {
		deps.Store = f.objects
	}
	f.svc = service.NewCalendarService(deps)
	return f
}

func (f *fixture) create(t *testing.T, owner uuid.UUID, name string, holiday bool) *dto.CalendarResponse {
	t.Helper()
	resp, appErr := f.svc.Create(context.Background(), owner, &dto.CreateCalendarRequest{Name: name, IsHoliday: holiday})
	require.Nil(t, appErr)
	return resp
}

func TestCreate_AddsDefaultCategory(t *testing.T) {
	f := newFixture(t, false)

	resp := f.create(t, f.alice, "  Work ", false)

	assert.Equal(t, "Work", resp.Name)
	assert.True(t, resp.IsOwner)
	assert.Equal(t, "owner", resp.Role)
	assert.True(t, resp.IsVisible)
	assert.NotEqual(t, uuid.Nil, f.store.DefaultCategoryID(resp.ID))
}

func TestCreate_SingleHolidayCalendar(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.create(t, f.alice, "Holidays", true)

	_, appErr := f.svc.Create(ctx, f.alice, &dto.CreateCalendarRequest{Name: "More holidays", IsHoliday: true})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	f.create(t, f.bob, "Holidays", true)
}

func TestList_OwnedAndShared(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	shared := f.create(t, f.bob, "Bob's team", false)
	f.store.AddParticipant(shared.ID, f.alice, accessEntity.RoleCreator)
	f.create(t, f.carol, "Private", false)

	list, appErr := f.svc.List(ctx, f.alice)
	require.Nil(t, appErr)
	require.Len(t, list, 2)

	byID := map[uuid.UUID]string{}
	for _, c := range list {
		byID[c.ID] = c.Role
	}
	assert.Equal(t, "owner", byID[f.mainID])
	assert.Equal(t, "creator", byID[shared.ID])
}

func TestGet_NonParticipantForbidden(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	_, appErr := f.svc.Get(ctx, f.dave, f.mainID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	_, appErr = f.svc.Get(ctx, f.alice, uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)
}

func TestUpdate_RequiresAdmin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cal := f.create(t, f.alice, "Team", false)
	f.store.AddParticipant(cal.ID, f.bob, accessEntity.RoleCreator)
	f.store.AddParticipant(cal.ID, f.carol, accessEntity.RoleAdmin)
	name := "Renamed"

	_, appErr := f.svc.Update(ctx, f.bob, cal.ID, &dto.UpdateCalendarRequest{Name: &name})
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	resp, appErr := f.svc.Update(ctx, f.carol, cal.ID, &dto.UpdateCalendarRequest{Name: &name})
	require.Nil(t, appErr)
	assert.Equal(t, "Renamed", resp.Name)
	assert.Equal(t, "admin", resp.Role)
	assert.Equal(t, "Renamed", f.store.Calendar(cal.ID).Name)
}

func TestSetVisibility(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cal := f.create(t, f.alice, "Team", false)

	resp, appErr := f.svc.SetVisibility(ctx, f.alice, cal.ID, false)
	require.Nil(t, appErr)
	assert.False(t, resp.IsVisible)

	_, appErr = f.svc.SetVisibility(ctx, f.alice, f.mainID, false)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrProtectedCalendar, appErr.Code)
	assert.True(t, f.store.Calendar(f.mainID).IsVisible)
}

func TestDelete_ProtectedCalendars(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	holiday := f.create(t, f.alice, "Holidays", true)

	appErr := f.svc.Delete(ctx, f.alice, f.mainID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrProtectedCalendar, appErr.Code)

	appErr = f.svc.Delete(ctx, f.alice, holiday.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrProtectedCalendar, appErr.Code)

	assert.NotNil(t, f.store.Calendar(f.mainID))
	assert.NotNil(t, f.store.Calendar(holiday.ID))
}

func TestDelete_CascadesParticipants(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cal := f.create(t, f.alice, "Team", false)
	f.store.AddParticipant(cal.ID, f.bob, accessEntity.RoleAdmin)

	appErr := f.svc.Delete(ctx, f.bob, cal.ID)
	require.Nil(t, appErr)

	assert.Nil(t, f.store.Calendar(cal.ID))
	assert.Nil(t, f.store.Participant(cal.ID, f.bob))
}

// Alice shares a calendar with Bob as admin and Carol as reader; Bob promotes Carol.
func TestParticipants_SharingScenario(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cal := f.create(t, f.alice, "Team", false)
	f.store.AddParticipant(cal.ID, f.bob, accessEntity.RoleAdmin)
	f.store.AddParticipant(cal.ID, f.carol, accessEntity.RoleReader)

	list, appErr := f.svc.ListParticipants(ctx, f.carol, cal.ID)
	require.Nil(t, appErr)
	assert.Equal(t, f.alice, list.Owner.ID)
	require.Len(t, list.Participants, 2)
	for _, p := range list.Participants {
		assert.NotEqual(t, f.alice, p.UserID)
	}

	appErr = f.svc.ChangeRole(ctx, f.carol, cal.ID, f.carol, accessEntity.RoleAdmin)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	require.Nil(t, f.svc.ChangeRole(ctx, f.bob, cal.ID, f.carol, accessEntity.RoleCreator))
	assert.Equal(t, accessEntity.RoleCreator, f.store.Participant(cal.ID, f.carol).Role)
	assert.Len(t, f.notifier.OfType(notifEntity.TypeRoleChanged), 1)

	appErr = f.svc.ChangeRole(ctx, f.bob, cal.ID, f.alice, accessEntity.RoleReader)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	appErr = f.svc.ChangeRole(ctx, f.bob, cal.ID, f.dave, accessEntity.RoleReader)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrNotFound, appErr.Code)

	_, appErr = f.svc.ListParticipants(ctx, f.dave, cal.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestRemoveParticipant(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cal := f.create(t, f.alice, "Team", false)
	f.store.AddParticipant(cal.ID, f.bob, accessEntity.RoleAdmin)
	f.store.AddParticipant(cal.ID, f.carol, accessEntity.RoleReader)

	appErr := f.svc.RemoveParticipant(ctx, f.carol, cal.ID, f.bob)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)

	appErr = f.svc.RemoveParticipant(ctx, f.bob, cal.ID, f.alice)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	require.Nil(t, f.svc.RemoveParticipant(ctx, f.bob, cal.ID, f.carol))
	assert.Nil(t, f.store.Participant(cal.ID, f.carol))
	assert.Len(t, f.notifier.OfType(notifEntity.TypeRemovedFromCalendar), 1)

	_, appErr = f.svc.Get(ctx, f.carol, cal.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestLeave(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cal := f.create(t, f.alice, "Team", false)
	f.store.AddParticipant(cal.ID, f.bob, accessEntity.RoleReader)

	appErr := f.svc.Leave(ctx, f.alice, cal.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrConflict, appErr.Code)

	require.Nil(t, f.svc.Leave(ctx, f.bob, cal.ID))
	assert.Nil(t, f.store.Participant(cal.ID, f.bob))

	left := f.notifier.OfType(notifEntity.TypeParticipantLeft)
	require.Len(t, left, 1)
	assert.Equal(t, f.alice, left[0].UserID)

	appErr = f.svc.Leave(ctx, f.bob, cal.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestExport(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	cal := f.create(t, f.alice, "Team Sync!", false)
	f.store.AddParticipant(cal.ID, f.carol, accessEntity.RoleReader)
	start := f.store.Clock.Now().Add(24 * time.Hour)
	f.store.AddEvent(cal.ID, f.alice, "Planning", start, start.Add(time.Hour))

	body, fileName, appErr := f.svc.Export(ctx, f.carol, cal.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "team-sync.ics", fileName)

	ics := string(body)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Contains(t, ics, "X-WR-CALNAME:Team Sync!")
	assert.Contains(t, ics, "SUMMARY:Planning")
	assert.Contains(t, ics, "BEGIN:VEVENT")

	_, _, appErr = f.svc.Export(ctx, f.dave, cal.ID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrForbidden, appErr.Code)
}

func TestExport_EmptyCalendar(t *testing.T) {
	f := newFixture(t, false)
	cal := f.create(t, f.alice, "Fresh", false)

	body, fileName, appErr := f.svc.Export(context.Background(), f.alice, cal.ID)
	require.Nil(t, appErr)
	assert.Equal(t, "fresh.ics", fileName)

	ics := string(body)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Contains(t, ics, "X-WR-CALNAME:Fresh")
	assert.NotContains(t, ics, "VALUE=TEXT")
	assert.Contains(t, ics, "BEGIN:VTIMEZONE")
	assert.Contains(t, ics, "TZID:UTC")
	assert.NotContains(t, ics, "BEGIN:VEVENT")
}

func TestPublishExport(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	resp, appErr := f.svc.PublishExport(ctx, f.alice, f.mainID)
	require.Nil(t, appErr)
	assert.True(t, strings.HasPrefix(resp.Key, "exports/"+f.mainID.String()+"/"))
	assert.True(t, strings.HasSuffix(resp.Key, "-my-calendar.ics"))
	assert.Contains(t, resp.URL, resp.Key)
	assert.Contains(t, f.objects.Objects, resp.Key)
}

func TestPublishExport_NotConfigured(t *testing.T) {
	f := newFixture(t, false)

	_, appErr := f.svc.PublishExport(context.Background(), f.alice, f.mainID)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrServiceUnavailable, appErr.Code)
}
