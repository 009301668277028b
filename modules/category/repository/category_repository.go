package repository

import (
	"context"
	"time"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	"calendar-api/modules/category/entity"

	"github.com/google/uuid"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	ListByCalendar(ctx context.Context, calendarID uuid.UUID) ([]entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountEvents(ctx context.Context, categoryID uuid.UUID) (int, error)
}

type categoryRepository struct {
	db database.IDatabase
}

func NewCategoryRepository(db database.IDatabase) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	now := time.Now().UTC()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt = now
	category.UpdatedAt = now

	query := `
		INSERT INTO event_categories (id, calendar_id, name, color, created_at, updated_at)
		VALUES (:id, :calendar_id, :name, :color, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		logger.Error("CategoryRepository:Create:Error", "calendar_id", category.CalendarID, "error", err)
		return err
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	query := `SELECT id, calendar_id, name, color, created_at, updated_at FROM event_categories WHERE id = $1`
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("CategoryRepository:GetByID:Error", "id", id, "error", err)
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListByCalendar(ctx context.Context, calendarID uuid.UUID) ([]entity.Category, error) {
	categories := []entity.Category{}
	query := `
		SELECT id, calendar_id, name, color, created_at, updated_at
		FROM event_categories
		WHERE calendar_id = $1
		ORDER BY name ASC
	`
	if err := r.db.SelectContext(ctx, &categories, query, calendarID); err != nil {
		logger.Error("CategoryRepository:ListByCalendar:Error", "calendar_id", calendarID, "error", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	category.UpdatedAt = time.Now().UTC()
	query := `UPDATE event_categories SET name = :name, color = :color, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		logger.Error("CategoryRepository:Update:Error", "id", category.ID, "error", err)
		return err
	}
	return nil
}

// Delete fails with a foreign key violation when events still reference the category.
func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.ExecContext(ctx, `DELETE FROM event_categories WHERE id = $1`, id); err != nil {
		logger.Error("CategoryRepository:Delete:Error", "id", id, "error", err)
		return err
	}
	return nil
}

func (r *categoryRepository) CountEvents(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events WHERE category_id = $1`, categoryID); err != nil {
		logger.Error("CategoryRepository:CountEvents:Error", "category_id", categoryID, "error", err)
		return 0, err
	}
	return count, nil
}
