package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	categoryEntity "calendar-api/modules/category/entity"
	"calendar-api/modules/event/entity"

	"github.com/google/uuid"
)

// EventRepository handles events and their participants
type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	ListByCalendar(ctx context.Context, calendarID uuid.UUID, window entity.TimeRange) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetCategoryCalendarID(ctx context.Context, categoryID uuid.UUID) (uuid.UUID, error)
	GetDefaultCategoryID(ctx context.Context, calendarID uuid.UUID) (uuid.UUID, error)

	ListParticipants(ctx context.Context, eventID uuid.UUID) ([]entity.EventParticipantDetail, error)
	GetParticipant(ctx context.Context, eventID, userID uuid.UUID) (*entity.EventParticipant, error)
	SetConfirmed(ctx context.Context, eventID, userID uuid.UUID, confirmed bool) (bool, error)
	RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type eventRepository struct {
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, calendar_id, category_id, creator_id, title, description, location, start_at, end_at, created_at, updated_at`

// ===================== Event CRUD =====================

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	now := time.Now().UTC()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.CreatedAt = now
	event.UpdatedAt = now

	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES (:id, :calendar_id, :category_id, :creator_id, :title, :description, :location, :start_at, :end_at, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		logger.Error("EventRepository:Create:Error", "calendar_id", event.CalendarID, "error", err)
		return err
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.GetContext(ctx, &event, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID:Error", "id", id, "error", err)
		return nil, err
	}
	return &event, nil
}

// ListByCalendar returns events overlapping the window, ordered by start.
func (r *eventRepository) ListByCalendar(ctx context.Context, calendarID uuid.UUID, window entity.TimeRange) ([]entity.Event, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE calendar_id = $1`)
	args := []any{calendarID}

	if window.From != nil {
		args = append(args, *window.From)
		sb.WriteString(` AND end_at > $` + strconv.Itoa(len(args)))
	}
	if window.To != nil {
		args = append(args, *window.To)
		sb.WriteString(` AND start_at < $` + strconv.Itoa(len(args)))
	}
	sb.WriteString(` ORDER BY start_at ASC`)

	events := []entity.Event{}
	if err := r.db.SelectContext(ctx, &events, sb.String(), args...); err != nil {
		logger.Error("EventRepository:ListByCalendar:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entity.Event) error {
	event.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE events
		SET category_id = :category_id, title = :title, description = :description, location = :location,
		    start_at = :start_at, end_at = :end_at, updated_at = :updated_at
		WHERE id = :id
	`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		logger.Error("EventRepository:Update:Error", "id", event.ID, "error", err)
		return err
	}
	return nil
}

// Delete removes the event together with its participants and email invites.
func (r *eventRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecResultContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		logger.Error("EventRepository:Delete:Error", "id", id, "error", err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *eventRepository) GetCategoryCalendarID(ctx context.Context, categoryID uuid.UUID) (uuid.UUID, error) {
	var calendarID uuid.UUID
	if err := r.db.GetContext(ctx, &calendarID, `SELECT calendar_id FROM event_categories WHERE id = $1`, categoryID); err != nil {
		if database.IsNoRows(err) {
			return uuid.Nil, nil
		}
		return uuid.Nil, err
	}
	return calendarID, nil
}

// GetDefaultCategoryID prefers the calendar's "General" category and falls back to its oldest one.
// uuid.Nil means the calendar has no categories.
func (r *eventRepository) GetDefaultCategoryID(ctx context.Context, calendarID uuid.UUID) (uuid.UUID, error) {
	query := `
		SELECT id FROM event_categories
		WHERE calendar_id = $1
		ORDER BY (name = $2) DESC, created_at ASC
		LIMIT 1
	`
	var categoryID uuid.UUID
	if err := r.db.GetContext(ctx, &categoryID, query, calendarID, categoryEntity.DefaultCategoryName); err != nil {
		if database.IsNoRows(err) {
			return uuid.Nil, nil
		}
		logger.Error("EventRepository:GetDefaultCategoryID:Error", "calendar_id", calendarID, "error", err)
		return uuid.Nil, err
	}
	return categoryID, nil
}

// ===================== Participants =====================

// UpsertConfirmedParticipant attaches the user to the event as confirmed. Runs inside the
// invite acceptance transaction.
func UpsertConfirmedParticipant(ctx context.Context, q database.Querier, eventID, userID uuid.UUID) error {
	now := time.Now().UTC()
	query := `
		INSERT INTO event_participants (id, event_id, user_id, has_confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $4)
		ON CONFLICT (event_id, user_id) DO UPDATE SET has_confirmed = TRUE, updated_at = EXCLUDED.updated_at
	`
	_, err := q.ExecContext(ctx, query, uuid.New(), eventID, userID, now)
	return err
}

func (r *eventRepository) ListParticipants(ctx context.Context, eventID uuid.UUID) ([]entity.EventParticipantDetail, error) {
	query := `
		SELECT ep.id, ep.event_id, ep.user_id, ep.has_confirmed, ep.created_at, ep.updated_at,
		       u.username, u.email
		FROM event_participants ep
		JOIN users u ON u.id = ep.user_id
		WHERE ep.event_id = $1
		ORDER BY ep.created_at ASC
	`
	participants := []entity.EventParticipantDetail{}
	if err := r.db.SelectContext(ctx, &participants, query, eventID); err != nil {
		logger.Error("EventRepository:ListParticipants:Error", "event_id", eventID, "error", err)
		return nil, err
	}
	return participants, nil
}

func (r *eventRepository) GetParticipant(ctx context.Context, eventID, userID uuid.UUID) (*entity.EventParticipant, error) {
	var participant entity.EventParticipant
	query := `
		SELECT id, event_id, user_id, has_confirmed, created_at, updated_at
		FROM event_participants
		WHERE event_id = $1 AND user_id = $2
	`
	if err := r.db.GetContext(ctx, &participant, query, eventID, userID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("EventRepository:GetParticipant:Error", "event_id", eventID, "error", err)
		return nil, err
	}
	return &participant, nil
}

func (r *eventRepository) SetConfirmed(ctx context.Context, eventID, userID uuid.UUID, confirmed bool) (bool, error) {
	query := `UPDATE event_participants SET has_confirmed = $1, updated_at = NOW() WHERE event_id = $2 AND user_id = $3`
	result, err := r.db.ExecResultContext(ctx, query, confirmed, eventID, userID)
	if err != nil {
		logger.Error("EventRepository:SetConfirmed:Error", "event_id", eventID, "error", err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *eventRepository) RemoveParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	result, err := r.db.ExecResultContext(ctx, `DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		logger.Error("EventRepository:RemoveParticipant:Error", "event_id", eventID, "error", err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
