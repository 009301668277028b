package repository

import (
	"context"
	"time"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	"calendar-api/modules/auth/entity"
	calendarEntity "calendar-api/modules/calendar/entity"
	calendarRepo "calendar-api/modules/calendar/repository"
	categoryEntity "calendar-api/modules/category/entity"

	"github.com/google/uuid"
)

// AuthRepositoryInterface defines the contract for user persistence
type AuthRepositoryInterface interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	CreateUserWithMainCalendar(ctx context.Context, user *entity.User, mainCalendar *calendarEntity.Calendar, defaultCategory *categoryEntity.Category) error
}

// AuthRepository handles user related database operations
type AuthRepository struct {
	DB database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

const userColumns = `id, username, email, password, full_name, is_active, created_at, updated_at`

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.DB.GetContext(ctx, &user, query, id); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID:Error", "error", err)
		return nil, err
	}
	return &user, nil
}

// GetUserByIdentifier looks a user up by email (case-insensitive) or username.
func (r *AuthRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = LOWER($1) OR username = $1 LIMIT 1`
	if err := r.DB.GetContext(ctx, &user, query, identifier); err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByIdentifier:Error", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR username = $2)`
	if err := r.DB.GetContext(ctx, &exists, query, email, username); err != nil {
		logger.Error("AuthRepository:ExistsByEmailOrUsername:Error", "error", err)
		return false, err
	}
	return exists, nil
}

// CreateUserWithMainCalendar inserts the user and their main calendar in one transaction.
func (r *AuthRepository) CreateUserWithMainCalendar(ctx context.Context, user *entity.User, mainCalendar *calendarEntity.Calendar, defaultCategory *categoryEntity.Category) error {
	now := time.Now().UTC()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	return r.DB.WithTx(ctx, func(tx database.Querier) error {
		query := `
			INSERT INTO users (id, username, email, password, full_name, is_active, created_at, updated_at)
			VALUES (:id, :username, :email, :password, :full_name, :is_active, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, query, user); err != nil {
			return err
		}

		mainCalendar.OwnerID = user.ID
		return calendarRepo.InsertCalendar(ctx, tx, mainCalendar, defaultCategory)
	})
}
