// Package testutil holds in-memory stand-ins for the postgres repositories so services can be
// exercised end to end without a database.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	accessEntity "calendar-api/modules/access/entity"
	calendarEntity "calendar-api/modules/calendar/entity"
	categoryEntity "calendar-api/modules/category/entity"
	eventEntity "calendar-api/modules/event/entity"
	invitationEntity "calendar-api/modules/invitation/entity"

	"github.com/google/uuid"
)

type pairKey struct {
	parent uuid.UUID
	user   uuid.UUID
}

// Store is the shared state behind every fake repository.
type Store struct {
	mu    sync.Mutex
	Clock *Clock

	users             map[uuid.UUID]*calendarEntity.UserSummary
	calendars         map[uuid.UUID]*calendarEntity.Calendar
	participants      map[pairKey]*calendarEntity.Participant
	categories        map[uuid.UUID]*categoryEntity.Category
	events            map[uuid.UUID]*eventEntity.Event
	eventParticipants map[pairKey]*eventEntity.EventParticipant
	links             map[string]*invitationEntity.InviteLink
	calendarInvites   map[uuid.UUID]*invitationEntity.CalendarEmailInvite
	eventInvites      map[uuid.UUID]*invitationEntity.EventEmailInvite
}

func NewStore(clock *Clock) *Store {
	if clock == nil {
		clock = NewClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	}
	return &Store{
		Clock:             clock,
		users:             map[uuid.UUID]*calendarEntity.UserSummary{},
		calendars:         map[uuid.UUID]*calendarEntity.Calendar{},
		participants:      map[pairKey]*calendarEntity.Participant{},
		categories:        map[uuid.UUID]*categoryEntity.Category{},
		events:            map[uuid.UUID]*eventEntity.Event{},
		eventParticipants: map[pairKey]*eventEntity.EventParticipant{},
		links:             map[string]*invitationEntity.InviteLink{},
		calendarInvites:   map[uuid.UUID]*invitationEntity.CalendarEmailInvite{},
		eventInvites:      map[uuid.UUID]*invitationEntity.EventEmailInvite{},
	}
}

// ===================== Seeding =====================

func (s *Store) AddUser(username, email string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.users[id] = &calendarEntity.UserSummary{ID: id, Username: username, Email: email, FullName: username}
	return id
}

// AddCalendar stores a calendar for owner together with its default category.
func (s *Store) AddCalendar(ownerID uuid.UUID, name string, isMain, isHoliday bool) *calendarEntity.Calendar {
	cal := &calendarEntity.Calendar{
		OwnerID:   ownerID,
		Name:      name,
		Color:     "#3b82f6",
		IsMain:    isMain,
		IsHoliday: isHoliday,
		IsVisible: true,
	}
	_ = s.createCalendar(cal, &categoryEntity.Category{Name: categoryEntity.DefaultCategoryName, Color: "#3b82f6"})
	return cal
}

func (s *Store) AddParticipant(calendarID, userID uuid.UUID, role accessEntity.Role) {
	_, _ = s.addParticipant(&calendarEntity.Participant{CalendarID: calendarID, UserID: userID, Role: role})
}

func (s *Store) AddEvent(calendarID, creatorID uuid.UUID, title string, start, end time.Time) *eventEntity.Event {
	ev := &eventEntity.Event{
		CalendarID: calendarID,
		CategoryID: s.DefaultCategoryID(calendarID),
		CreatorID:  creatorID,
		Title:      title,
		StartAt:    start,
		EndAt:      end,
	}
	_ = (&EventRepo{s}).Create(context.Background(), ev)
	return ev
}

func (s *Store) AddEventParticipant(eventID, userID uuid.UUID, confirmed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Clock.Now()
	s.eventParticipants[pairKey{eventID, userID}] = &eventEntity.EventParticipant{
		ID: uuid.New(), EventID: eventID, UserID: userID, HasConfirmed: confirmed, CreatedAt: now, UpdatedAt: now,
	}
}

// ===================== Inspection =====================

func (s *Store) Participant(calendarID, userID uuid.UUID) *calendarEntity.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.participants[pairKey{calendarID, userID}]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (s *Store) ParticipantCount(calendarID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.participants {
		if k.parent == calendarID {
			n++
		}
	}
	return n
}

func (s *Store) EventParticipant(eventID, userID uuid.UUID) *eventEntity.EventParticipant {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.eventParticipants[pairKey{eventID, userID}]; ok {
		cp := *p
		return &cp
	}
	return nil
}

func (s *Store) DefaultCategoryID(calendarID uuid.UUID) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.CalendarID == calendarID && c.Name == categoryEntity.DefaultCategoryName {
			return c.ID
		}
	}
	return uuid.Nil
}

func (s *Store) Calendar(id uuid.UUID) *calendarEntity.Calendar {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.calendars[id]; ok {
		cp := *c
		return &cp
	}
	return nil
}

func (s *Store) CalendarEmailInviteByEmail(email string) *invitationEntity.CalendarEmailInvite {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.calendarInvites {
		if inv.Email == email {
			cp := *inv
			return &cp
		}
	}
	return nil
}

func (s *Store) EventEmailInviteByEmail(email string) *invitationEntity.EventEmailInvite {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.eventInvites {
		if inv.Email == email {
			cp := *inv
			return &cp
		}
	}
	return nil
}

// ===================== Shared writes =====================

func (s *Store) createCalendar(cal *calendarEntity.Calendar, defaultCategory *categoryEntity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.Clock.Now()
	if cal.ID == uuid.Nil {
		cal.ID = uuid.New()
	}
	cal.CreatedAt, cal.UpdatedAt = now, now
	cp := *cal
	s.calendars[cal.ID] = &cp

	if defaultCategory != nil {
		if defaultCategory.ID == uuid.Nil {
			defaultCategory.ID = uuid.New()
		}
		defaultCategory.CalendarID = cal.ID
		defaultCategory.CreatedAt, defaultCategory.UpdatedAt = now, now
		cc := *defaultCategory
		s.categories[cc.ID] = &cc
	}
	return nil
}

func (s *Store) addParticipant(p *calendarEntity.Participant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addParticipantLocked(p), nil
}

func (s *Store) addParticipantLocked(p *calendarEntity.Participant) bool {
	key := pairKey{p.CalendarID, p.UserID}
	if _, ok := s.participants[key]; ok {
		return false
	}
	now := s.Clock.Now()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	s.participants[key] = &cp
	return true
}

// deleteCalendarLocked cascades the way the foreign keys do.
func (s *Store) deleteCalendarLocked(id uuid.UUID) {
	delete(s.calendars, id)
	for k := range s.participants {
		if k.parent == id {
			delete(s.participants, k)
		}
	}
	for cid, c := range s.categories {
		if c.CalendarID == id {
			delete(s.categories, cid)
		}
	}
	for eid, e := range s.events {
		if e.CalendarID == id {
			s.deleteEventLocked(eid)
		}
	}
	for lid, l := range s.links {
		if l.CalendarID == id {
			delete(s.links, lid)
		}
	}
	for iid, inv := range s.calendarInvites {
		if inv.CalendarID == id {
			delete(s.calendarInvites, iid)
		}
	}
}

func (s *Store) deleteEventLocked(id uuid.UUID) {
	delete(s.events, id)
	for k := range s.eventParticipants {
		if k.parent == id {
			delete(s.eventParticipants, k)
		}
	}
	for iid, inv := range s.eventInvites {
		if inv.EventID == id {
			delete(s.eventInvites, iid)
		}
	}
}

func (s *Store) userByEmailLocked(email string) *calendarEntity.UserSummary {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func sortEvents(events []eventEntity.Event) {
	sort.Slice(events, func(i, j int) bool { return events[i].StartAt.Before(events[j].StartAt) })
}
