package repository

import (
	"context"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	"calendar-api/modules/access/entity"

	"github.com/google/uuid"
)

// AccessRepository resolves resources to their owning calendar and the caller's role on it.
// Lookups return nil (or uuid.Nil) without error when the row does not exist.
type AccessRepository interface {
	GetCalendarRef(ctx context.Context, calendarID uuid.UUID) (*entity.CalendarRef, error)
	GetParticipantRole(ctx context.Context, calendarID, userID uuid.UUID) (*entity.Role, error)
	GetEventCalendarID(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error)
	GetCategoryCalendarID(ctx context.Context, categoryID uuid.UUID) (uuid.UUID, error)
	IsEventParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error)
}

type accessRepository struct {
	db database.IDatabase
}

func NewAccessRepository(db database.IDatabase) AccessRepository {
	return &accessRepository{db: db}
}

func (r *accessRepository) GetCalendarRef(ctx context.Context, calendarID uuid.UUID) (*entity.CalendarRef, error) {
	query := `SELECT id, owner_id, is_main, is_holiday FROM calendars WHERE id = $1`

	var ref entity.CalendarRef
	if err := r.db.GetContext(ctx, &ref, query, calendarID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("AccessRepository:GetCalendarRef:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return &ref, nil
}

func (r *accessRepository) GetParticipantRole(ctx context.Context, calendarID, userID uuid.UUID) (*entity.Role, error) {
	query := `SELECT role FROM calendar_participants WHERE calendar_id = $1 AND user_id = $2`

	var role entity.Role
	if err := r.db.GetContext(ctx, &role, query, calendarID, userID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("AccessRepository:GetParticipantRole:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return &role, nil
}

func (r *accessRepository) GetEventCalendarID(ctx context.Context, eventID uuid.UUID) (uuid.UUID, error) {
	return r.scalarCalendarID(ctx, `SELECT calendar_id FROM events WHERE id = $1`, eventID)
}

func (r *accessRepository) GetCategoryCalendarID(ctx context.Context, categoryID uuid.UUID) (uuid.UUID, error) {
	return r.scalarCalendarID(ctx, `SELECT calendar_id FROM event_categories WHERE id = $1`, categoryID)
}

func (r *accessRepository) scalarCalendarID(ctx context.Context, query string, id uuid.UUID) (uuid.UUID, error) {
	var calendarID uuid.UUID
	if err := r.db.GetContext(ctx, &calendarID, query, id); err != nil {
		if database.IsNoRows(err) {
			return uuid.Nil, nil
		}
		logger.Error("AccessRepository:ScalarCalendarID:Error", "id", id, "error", err)
		return uuid.Nil, err
	}
	return calendarID, nil
}

func (r *accessRepository) IsEventParticipant(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM event_participants WHERE event_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, eventID, userID); err != nil {
		logger.Error("AccessRepository:IsEventParticipant:Error", "event_id", eventID, "error", err)
		return false, err
	}
	return exists, nil
}
