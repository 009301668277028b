package service

import (
	"context"
	"time"

	"calendar-api/core/constants"
	coreEntity "calendar-api/core/entity"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/core/params"
	"calendar-api/modules/notification/dto"
	"calendar-api/modules/notification/entity"
	"calendar-api/modules/notification/mapper"
	"calendar-api/modules/notification/repository"

	"github.com/google/uuid"
)

// Notifier is what other modules depend on to leave a notification for a user.
type Notifier interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) error
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) error {
	now := time.Now()
	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
		IsRead:  false,
		BaseEntity: coreEntity.BaseEntity{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	return s.repo.Create(ctx, notif)
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, filter entity.ListFilter, queryParams params.QueryParams) (*dto.PaginatedNotificationResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	page, err := s.repo.ListForUser(ctx, userID, filter, queryParams)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get notifications failed", err)
	}
	return mapper.ToPaginatedNotificationResponse(page), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*dto.MarkAsReadResponse, *errors.AppError) {
	if len(ids) == 0 {
		return nil, errors.InvalidInput("ids must not be empty")
	}
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	updated, err := s.repo.MarkAsRead(ctx, userID, ids)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "mark notifications as read failed", err)
	}
	return &dto.MarkAsReadResponse{Updated: updated}, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (*dto.MarkAsReadResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	updated, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "mark all notifications as read failed", err)
	}
	return &dto.MarkAsReadResponse{Updated: updated}, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrGetFailed, "count unread notifications failed", err)
	}
	return count, nil
}

func (s *NotificationService) Delete(ctx context.Context, userID, id uuid.UUID) *errors.AppError {
	deleted, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete notification failed", err)
	}
	if !deleted {
		return errors.NotFound("notification not found")
	}
	return nil
}

// NotifySafe creates a notification and only logs failures. Notifications never fail the calling operation.
func NotifySafe(ctx context.Context, n Notifier, req *dto.CreateNotificationRequest) {
	if n == nil || req.UserID == uuid.Nil {
		return
	}
	if err := n.Create(ctx, req); err != nil {
		logger.Error("Notification:NotifySafe:Error", "type", req.Type, "user_id", req.UserID, "error", err)
	}
}
