package repository

import (
	"context"
	"fmt"
	"strings"

	"calendar-api/core/database"
	"calendar-api/core/logger"
	"calendar-api/core/params"
	"calendar-api/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID, filter entity.ListFilter, params params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, error)
}

type NotificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, data, is_read, created_at, updated_at)
		VALUES (:id, :user_id, :title, :message, :type, :data, :is_read, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		logger.Error("NotificationRepository:Create:Error", "user_id", notification.UserID, "type", notification.Type, "error", err)
		return err
	}
	return nil
}

// ListForUser pages through a user's feed, newest first. Calendar filtering matches data->>'calendar_id'.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID uuid.UUID, filter entity.ListFilter, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	conds := []string{"user_id = $1"}
	args := []any{userID}
	if filter.UnreadOnly {
		conds = append(conds, "is_read = false")
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		conds = append(conds, fmt.Sprintf("type = $%d", len(args)))
	}
	if filter.CalendarID != nil {
		args = append(args, filter.CalendarID.String())
		conds = append(conds, fmt.Sprintf("data->>'calendar_id' = $%d", len(args)))
	}
	where := " FROM notifications WHERE " + strings.Join(conds, " AND ")

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, "SELECT COUNT(*)"+where, args...); err != nil {
		logger.Error("NotificationRepository:ListForUser:Count:Error", "user_id", userID, "error", err)
		return nil, err
	}

	query := fmt.Sprintf(`SELECT id, user_id, title, message, type, data, is_read, created_at, updated_at%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)

	notifications := []entity.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, append(args, params.PageSize, params.Offset())...); err != nil {
		logger.Error("NotificationRepository:ListForUser:Select:Error", "user_id", userID, "error", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = true, updated_at = NOW() WHERE user_id = ? AND is_read = false AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecResultContext(ctx, r.db.SQLx().Rebind(query), args...)
	if err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error", "user_id", userID, "error", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.db.ExecResultContext(ctx, `UPDATE notifications SET is_read = true, updated_at = NOW() WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error", "user_id", userID, "error", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		logger.Error("NotificationRepository:CountUnread:Error", "user_id", userID, "error", err)
		return 0, err
	}
	return count, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecResultContext(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		logger.Error("NotificationRepository:Delete:Error", "id", id, "error", err)
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
