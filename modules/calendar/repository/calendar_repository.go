package repository

import (
	"context"
	"time"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	"calendar-api/modules/calendar/entity"
	categoryEntity "calendar-api/modules/category/entity"

	"github.com/google/uuid"
)

type CalendarRepository interface {
	Create(ctx context.Context, calendar *entity.Calendar, defaultCategory *categoryEntity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.CalendarWithAccess, error)
	Update(ctx context.Context, calendar *entity.Calendar) error
	SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	HasHolidayCalendar(ctx context.Context, ownerID uuid.UUID) (bool, error)
	GetUserSummary(ctx context.Context, userID uuid.UUID) (*entity.UserSummary, error)
}

type calendarRepository struct {
	db database.IDatabase
}

func NewCalendarRepository(db database.IDatabase) CalendarRepository {
	return &calendarRepository{db: db}
}

const calendarColumns = `c.id, c.owner_id, c.name, c.description, c.color, c.is_main, c.is_holiday, c.is_visible, c.created_at, c.updated_at`

// InsertCalendar writes a calendar and its default category with q, which may be a transaction.
func InsertCalendar(ctx context.Context, q database.Querier, calendar *entity.Calendar, defaultCategory *categoryEntity.Category) error {
	now := time.Now().UTC()
	if calendar.ID == uuid.Nil {
		calendar.ID = uuid.New()
	}
	calendar.CreatedAt = now
	calendar.UpdatedAt = now

	query := `
		INSERT INTO calendars (id, owner_id, name, description, color, is_main, is_holiday, is_visible, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :description, :color, :is_main, :is_holiday, :is_visible, :created_at, :updated_at)
	`
	if _, err := q.NamedExecContext(ctx, query, calendar); err != nil {
		return err
	}

	if defaultCategory == nil {
		return nil
	}
	if defaultCategory.ID == uuid.Nil {
		defaultCategory.ID = uuid.New()
	}
	defaultCategory.CalendarID = calendar.ID
	defaultCategory.CreatedAt = now
	defaultCategory.UpdatedAt = now

	categoryQuery := `
		INSERT INTO event_categories (id, calendar_id, name, color, created_at, updated_at)
		VALUES (:id, :calendar_id, :name, :color, :created_at, :updated_at)
	`
	_, err := q.NamedExecContext(ctx, categoryQuery, defaultCategory)
	return err
}

func (r *calendarRepository) Create(ctx context.Context, calendar *entity.Calendar, defaultCategory *categoryEntity.Category) error {
	err := r.db.WithTx(ctx, func(tx database.Querier) error {
		return InsertCalendar(ctx, tx, calendar, defaultCategory)
	})
	if err != nil {
		logger.Error("CalendarRepository:Create:Error", "owner_id", calendar.OwnerID, "error", err)
		return err
	}
	return nil
}

func (r *calendarRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Calendar, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendars c WHERE c.id = $1`

	var calendar entity.Calendar
	if err := r.db.GetContext(ctx, &calendar, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetByID:Error", "id", id, "error", err)
		return nil, err
	}
	return &calendar, nil
}

// ListForUser returns calendars the user owns followed by calendars shared with them.
func (r *calendarRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.CalendarWithAccess, error) {
	query := `
		SELECT ` + calendarColumns + `, NULL::varchar AS role, u.username AS owner_username
		FROM calendars c
		JOIN users u ON u.id = c.owner_id
		WHERE c.owner_id = $1
		UNION ALL
		SELECT ` + calendarColumns + `, p.role AS role, u.username AS owner_username
		FROM calendars c
		JOIN calendar_participants p ON p.calendar_id = c.id AND p.user_id = $1
		JOIN users u ON u.id = c.owner_id
		ORDER BY is_main DESC, name ASC
	`

	calendars := []entity.CalendarWithAccess{}
	if err := r.db.SelectContext(ctx, &calendars, query, userID); err != nil {
		logger.Error("CalendarRepository:ListForUser:Error", "user_id", userID, "error", err)
		return nil, err
	}
	return calendars, nil
}

func (r *calendarRepository) Update(ctx context.Context, calendar *entity.Calendar) error {
	calendar.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE calendars
		SET name = :name, description = :description, color = :color, updated_at = :updated_at
		WHERE id = :id
	`
	if _, err := r.db.NamedExecContext(ctx, query, calendar); err != nil {
		logger.Error("CalendarRepository:Update:Error", "id", calendar.ID, "error", err)
		return err
	}
	return nil
}

func (r *calendarRepository) SetVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	query := `UPDATE calendars SET is_visible = $1, updated_at = NOW() WHERE id = $2`
	if err := r.db.ExecContext(ctx, query, visible, id); err != nil {
		logger.Error("CalendarRepository:SetVisibility:Error", "id", id, "error", err)
		return err
	}
	return nil
}

// Delete removes the calendar. Events, categories, participants and invites go with it.
func (r *calendarRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecResultContext(ctx, `DELETE FROM calendars WHERE id = $1`, id)
	if err != nil {
		logger.Error("CalendarRepository:Delete:Error", "id", id, "error", err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *calendarRepository) HasHolidayCalendar(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM calendars WHERE owner_id = $1 AND is_holiday)`
	if err := r.db.GetContext(ctx, &exists, query, ownerID); err != nil {
		logger.Error("CalendarRepository:HasHolidayCalendar:Error", "owner_id", ownerID, "error", err)
		return false, err
	}
	return exists, nil
}

func (r *calendarRepository) GetUserSummary(ctx context.Context, userID uuid.UUID) (*entity.UserSummary, error) {
	var user entity.UserSummary
	query := `SELECT id, username, email, full_name FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, userID); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("CalendarRepository:GetUserSummary:Error", "user_id", userID, "error", err)
		return nil, err
	}
	return &user, nil
}
