package testutil

import (
	"context"
	"sort"
	"strings"
	"time"

	accessEntity "calendar-api/modules/access/entity"
	calendarEntity "calendar-api/modules/calendar/entity"
	categoryEntity "calendar-api/modules/category/entity"
	eventEntity "calendar-api/modules/event/entity"
	invitationEntity "calendar-api/modules/invitation/entity"

	"github.com/google/uuid"
)

// ===================== Access =====================

type AccessRepo struct{ s *Store }

func (s *Store) AccessRepo() *AccessRepo { return &AccessRepo{s} }

func (r *AccessRepo) GetCalendarRef(ctx context.Context, calendarID uuid.UUID) (*accessEntity.CalendarRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.calendars[calendarID]
	if !ok {
		return nil, nil
	}
	return &accessEntity.CalendarRef{ID: c.ID, OwnerID: c.OwnerID, IsMain: c.IsMain, IsHoliday: c.IsHoliday}, nil
}

func (r *AccessRepo) GetParticipantRole(ctx context.Context, calendarID, userID uuid.UUID) (*accessEntity.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[pairKey{calendarID, userID}]
	if !ok {
		return nil, nil
	}
	role := p.Role
	return &role, nil
}

func (r *AccessRepo) GetEventCalendarID(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.events[eventID]; ok {
		return e.CalendarID, nil
	}
	return uuid.Nil, nil
}

func (r *AccessRepo) GetCategoryCalendarID(ctx context.Context, categoryID uuid.UUID) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[categoryID]; ok {
		return c.CalendarID, nil
	}
	return uuid.Nil, nil
}

func (r *AccessRepo) IsEventParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.eventParticipants[pairKey{eventID, userID}]
	return ok, nil
}

// ===================== Calendars =====================

type CalendarRepo struct{ s *Store }

func (s *Store) CalendarRepo() *CalendarRepo { return &CalendarRepo{s} }

func (r *CalendarRepo) Create(ctx context.Context, calendar *calendarEntity.Calendar, defaultCategory *categoryEntity.Category) error {
	return r.s.createCalendar(calendar, defaultCategory)
}

func (r *CalendarRepo) GetByID(ctx context.Context, id uuid.UUID) (*calendarEntity.Calendar, error) {
	return r.s.Calendar(id), nil
}

func (r *CalendarRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]calendarEntity.CalendarWithAccess, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]calendarEntity.CalendarWithAccess, 0)
	for _, c := range r.s.calendars {
		item := calendarEntity.CalendarWithAccess{Calendar: *c}
		if owner, ok := r.s.users[c.OwnerID]; ok {
			item.OwnerUsername = owner.Username
		}
		if c.OwnerID != userID {
			p, ok := r.s.participants[pairKey{c.ID, userID}]
			if !ok {
				continue
			}
			role := string(p.Role)
			item.Role = &role
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsMain != out[j].IsMain {
			return out[i].IsMain
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CalendarRepo) Update(ctx context.Context, calendar *calendarEntity.Calendar) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.calendars[calendar.ID]
	if !ok {
		return nil
	}
	c.Name, c.Description, c.Color = calendar.Name, calendar.Description, calendar.Color
	c.UpdatedAt = r.s.Clock.Now()
	calendar.UpdatedAt = c.UpdatedAt
	return nil
}

func (r *CalendarRepo) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.calendars[id]; ok {
		c.IsVisible = visible
		c.UpdatedAt = r.s.Clock.Now()
	}
	return nil
}

func (r *CalendarRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.calendars[id]; !ok {
		return false, nil
	}
	r.s.deleteCalendarLocked(id)
	return true, nil
}

func (r *CalendarRepo) HasHolidayCalendar(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.calendars {
		if c.OwnerID == ownerID && c.IsHoliday {
			return true, nil
		}
	}
	return false, nil
}

func (r *CalendarRepo) GetUserSummary(ctx context.Context, userID uuid.UUID) (*calendarEntity.UserSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// ===================== Participants =====================

type ParticipantRepo struct{ s *Store }

func (s *Store) ParticipantRepo() *ParticipantRepo { return &ParticipantRepo{s} }

func (r *ParticipantRepo) AddParticipant(ctx context.Context, participant *calendarEntity.Participant) (bool, error) {
	return r.s.addParticipant(participant)
}

func (r *ParticipantRepo) GetParticipant(ctx context.Context, calendarID, userID uuid.UUID) (*calendarEntity.Participant, error) {
	return r.s.Participant(calendarID, userID), nil
}

func (r *ParticipantRepo) ListParticipants(ctx context.Context, calendarID uuid.UUID) ([]calendarEntity.ParticipantDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]calendarEntity.ParticipantDetail, 0)
	for k, p := range r.s.participants {
		if k.parent != calendarID {
			continue
		}
		d := calendarEntity.ParticipantDetail{Participant: *p}
		if u, ok := r.s.users[p.UserID]; ok {
			d.Username, d.Email, d.FullName = u.Username, u.Email, u.FullName
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *ParticipantRepo) UpdateRole(ctx context.Context, calendarID, userID uuid.UUID, role accessEntity.Role) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[pairKey{calendarID, userID}]
	if !ok {
		return false, nil
	}
	p.Role = role
	p.UpdatedAt = r.s.Clock.Now()
	return true, nil
}

func (r *ParticipantRepo) RemoveParticipant(ctx context.Context, calendarID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{calendarID, userID}
	if _, ok := r.s.participants[key]; !ok {
		return false, nil
	}
	delete(r.s.participants, key)
	return true, nil
}

// ===================== Categories =====================

type CategoryRepo struct{ s *Store }

func (s *Store) CategoryRepo() *CategoryRepo { return &CategoryRepo{s} }

func (r *CategoryRepo) Create(ctx context.Context, category *categoryEntity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.Clock.Now()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt, category.UpdatedAt = now, now
	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*categoryEntity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *CategoryRepo) ListByCalendar(ctx context.Context, calendarID uuid.UUID) ([]categoryEntity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]categoryEntity.Category, 0)
	for _, c := range r.s.categories {
		if c.CalendarID == calendarID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CategoryRepo) Update(ctx context.Context, category *categoryEntity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[category.ID]; ok {
		c.Name, c.Color = category.Name, category.Color
		c.UpdatedAt = r.s.Clock.Now()
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepo) CountEvents(ctx context.Context, categoryID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := 0
	for _, e := range r.s.events {
		if e.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// ===================== Events =====================

type EventRepo struct{ s *Store }

func (s *Store) EventRepo() *EventRepo { return &EventRepo{s} }

func (r *EventRepo) Create(ctx context.Context, event *eventEntity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.Clock.Now()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt, event.UpdatedAt = now, now
	cp := *event
	r.s.events[event.ID] = &cp
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *EventRepo) ListByCalendar(ctx context.Context, calendarID uuid.UUID, window eventEntity.TimeRange) ([]eventEntity.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]eventEntity.Event, 0)
	for _, e := range r.s.events {
		if e.CalendarID != calendarID {
			continue
		}
		if window.From != nil && !e.EndAt.After(*window.From) {
			continue
		}
		if window.To != nil && !e.StartAt.Before(*window.To) {
			continue
		}
		out = append(out, *e)
	}
	sortEvents(out)
	return out, nil
}

func (r *EventRepo) Update(ctx context.Context, event *eventEntity.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[event.ID]; !ok {
		return nil
	}
	event.UpdatedAt = r.s.Clock.Now()
	cp := *event
	r.s.events[event.ID] = &cp
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return false, nil
	}
	r.s.deleteEventLocked(id)
	return true, nil
}

func (r *EventRepo) GetCategoryCalendarID(ctx context.Context, categoryID uuid.UUID) (uuid.UUID, error) {
	return r.s.AccessRepo().GetCategoryCalendarID(ctx, categoryID)
}

func (r *EventRepo) GetDefaultCategoryID(ctx context.Context, calendarID uuid.UUID) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var best *categoryEntity.Category
	for _, c := range r.s.categories {
		if c.CalendarID != calendarID {
			continue
		}
		switch {
		case best == nil:
			best = c
		case (c.Name == categoryEntity.DefaultCategoryName) != (best.Name == categoryEntity.DefaultCategoryName):
			if c.Name == categoryEntity.DefaultCategoryName {
				best = c
			}
		case c.CreatedAt.Before(best.CreatedAt):
			best = c
		}
	}
	if best == nil {
		return uuid.Nil, nil
	}
	return best.ID, nil
}

func (r *EventRepo) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]eventEntity.EventParticipantDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]eventEntity.EventParticipantDetail, 0)
	for k, p := range r.s.eventParticipants {
		if k.parent != eventID {
			continue
		}
		d := eventEntity.EventParticipantDetail{EventParticipant: *p}
		if u, ok := r.s.users[p.UserID]; ok {
			d.Username, d.Email = u.Username, u.Email
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *EventRepo) GetParticipant(ctx context.Context, eventID, userID uuid.UUID) (*eventEntity.EventParticipant, error) {
	return r.s.EventParticipant(eventID, userID), nil
}

func (r *EventRepo) SetConfirmed(ctx context.Context, eventID, userID uuid.UUID, confirmed bool) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.eventParticipants[pairKey{eventID, userID}]
	if !ok {
		return false, nil
	}
	p.HasConfirmed = confirmed
	p.UpdatedAt = r.s.Clock.Now()
	return true, nil
}

func (r *EventRepo) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := pairKey{eventID, userID}
	if _, ok := r.s.eventParticipants[key]; !ok {
		return false, nil
	}
	delete(r.s.eventParticipants, key)
	return true, nil
}

// ===================== Invitations =====================

type InvitationRepo struct{ s *Store }

func (s *Store) InvitationRepo() *InvitationRepo { return &InvitationRepo{s} }

func (r *InvitationRepo) CreateLink(ctx context.Context, link *invitationEntity.InviteLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	link.CreatedAt = r.s.Clock.Now()
	cp := *link
	r.s.links[link.ID] = &cp
	return nil
}

func (r *InvitationRepo) GetLinkInfo(ctx context.Context, id string) (*invitationEntity.InviteLinkInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok {
		return nil, nil
	}
	c, ok := r.s.calendars[l.CalendarID]
	if !ok {
		return nil, nil
	}
	info := &invitationEntity.InviteLinkInfo{
		InviteLink:      *l,
		CalendarName:    c.Name,
		CalendarColor:   c.Color,
		CalendarOwnerID: c.OwnerID,
	}
	if u, ok := r.s.users[l.CreatedBy]; ok {
		info.InviterUsername = u.Username
	}
	return info, nil
}

func (r *InvitationRepo) ListLinks(ctx context.Context, calendarID uuid.UUID) ([]invitationEntity.InviteLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]invitationEntity.InviteLink, 0)
	for _, l := range r.s.links {
		if l.CalendarID == calendarID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InvitationRepo) DeleteLink(ctx context.Context, calendarID uuid.UUID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.links[id]
	if !ok || l.CalendarID != calendarID {
		return false, nil
	}
	delete(r.s.links, id)
	return true, nil
}

func (r *InvitationRepo) CreateCalendarEmailInvites(ctx context.Context, invites []*invitationEntity.CalendarEmailInvite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.Clock.Now()
	for _, inv := range invites {
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		inv.Status = invitationEntity.InviteStatusPending
		inv.CreatedAt, inv.UpdatedAt = now, now
		cp := *inv
		r.s.calendarInvites[inv.ID] = &cp
	}
	return nil
}

func (r *InvitationRepo) ListPendingCalendarEmailInvites(ctx context.Context, calendarID uuid.UUID) ([]invitationEntity.CalendarEmailInvite, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]invitationEntity.CalendarEmailInvite, 0)
	for _, inv := range r.s.calendarInvites {
		if inv.CalendarID == calendarID && inv.Status == invitationEntity.InviteStatusPending {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *InvitationRepo) DeleteCalendarEmailInvite(ctx context.Context, calendarID, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.calendarInvites[id]
	if !ok || inv.CalendarID != calendarID || inv.Status != invitationEntity.InviteStatusPending {
		return false, nil
	}
	delete(r.s.calendarInvites, id)
	return true, nil
}

func (r *InvitationRepo) GetCalendarEmailInviteInfo(ctx context.Context, token string) (*invitationEntity.CalendarEmailInviteInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.calendarInvites {
		if inv.Token != token {
			continue
		}
		c, ok := r.s.calendars[inv.CalendarID]
		if !ok {
			return nil, nil
		}
		info := &invitationEntity.CalendarEmailInviteInfo{
			CalendarEmailInvite: *inv,
			CalendarName:        c.Name,
			CalendarColor:       c.Color,
			CalendarOwnerID:     c.OwnerID,
		}
		if u, ok := r.s.users[inv.InvitedBy]; ok {
			info.InviterUsername = u.Username
		}
		return info, nil
	}
	return nil, nil
}

func (r *InvitationRepo) AcceptCalendarEmailInvite(ctx context.Context, inviteID uuid.UUID, participant *calendarEntity.Participant, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.calendarInvites[inviteID]
	if !ok || inv.Status != invitationEntity.InviteStatusPending {
		return false, nil
	}
	inv.Status = invitationEntity.InviteStatusAccepted
	inv.AcceptedAt = &now
	acceptedBy := participant.UserID
	inv.AcceptedBy = &acceptedBy
	inv.UpdatedAt = now
	r.s.addParticipantLocked(participant)
	return true, nil
}

func (r *InvitationRepo) CreateEventEmailInvites(ctx context.Context, invites []*invitationEntity.EventEmailInvite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.Clock.Now()
	for _, inv := range invites {
		if inv.ID == uuid.Nil {
			inv.ID = uuid.New()
		}
		inv.Status = invitationEntity.InviteStatusPending
		inv.CreatedAt, inv.UpdatedAt = now, now
		cp := *inv
		r.s.eventInvites[inv.ID] = &cp
	}
	return nil
}

func (r *InvitationRepo) GetEventEmailInviteInfo(ctx context.Context, token string) (*invitationEntity.EventEmailInviteInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.eventInvites {
		if inv.Token != token {
			continue
		}
		e, ok := r.s.events[inv.EventID]
		if !ok {
			return nil, nil
		}
		info := &invitationEntity.EventEmailInviteInfo{
			EventEmailInvite: *inv,
			EventTitle:       e.Title,
			EventStartAt:     e.StartAt,
			EventEndAt:       e.EndAt,
			CalendarID:       e.CalendarID,
		}
		if u, ok := r.s.users[inv.InvitedBy]; ok {
			info.InviterUsername = u.Username
		}
		return info, nil
	}
	return nil, nil
}

func (r *InvitationRepo) AcceptEventEmailInvite(ctx context.Context, inviteID, eventID, userID uuid.UUID, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.eventInvites[inviteID]
	if !ok || inv.Status != invitationEntity.InviteStatusPending {
		return false, nil
	}
	inv.Status = invitationEntity.InviteStatusAccepted
	inv.AcceptedAt = &now
	uid := userID
	inv.UserID = &uid
	inv.UpdatedAt = now

	key := pairKey{eventID, userID}
	if p, ok := r.s.eventParticipants[key]; ok {
		p.HasConfirmed = true
		p.UpdatedAt = now
	} else {
		r.s.eventParticipants[key] = &eventEntity.EventParticipant{
			ID: uuid.New(), EventID: eventID, UserID: userID, HasConfirmed: true, CreatedAt: now, UpdatedAt: now,
		}
	}
	return true, nil
}

func (r *InvitationRepo) FindUserIDsByEmails(ctx context.Context, emails []string) (map[string]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[string]uuid.UUID, len(emails))
	for _, email := range emails {
		if u := r.s.userByEmailLocked(strings.ToLower(email)); u != nil {
			out[email] = u.ID
		}
	}
	return out, nil
}

func (r *InvitationRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (*invitationEntity.CleanupResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res := &invitationEntity.CleanupResult{}
	expired := func(t *time.Time) bool { return t != nil && t.Before(cutoff) }
	for id, l := range r.s.links {
		if expired(l.ExpiresAt) {
			delete(r.s.links, id)
			res.Links++
		}
	}
	for id, inv := range r.s.calendarInvites {
		if inv.Status == invitationEntity.InviteStatusPending && expired(inv.ExpiresAt) {
			delete(r.s.calendarInvites, id)
			res.CalendarEmails++
		}
	}
	for id, inv := range r.s.eventInvites {
		if inv.Status == invitationEntity.InviteStatusPending && expired(inv.ExpiresAt) {
			delete(r.s.eventInvites, id)
			res.EventEmails++
		}
	}
	return res, nil
}
