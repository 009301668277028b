package service

import (
	"context"

	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/modules/access/entity"
	"calendar-api/modules/access/repository"

	"github.com/google/uuid"
)

// AccessServiceInterface is the single authorization check used by every protected operation.
type AccessServiceInterface interface {
	Authorize(ctx context.Context, userID, calendarID uuid.UUID, action entity.Action) (*entity.Grant, *errors.AppError)
	AuthorizeEvent(ctx context.Context, userID, eventID uuid.UUID, action entity.Action) (*entity.Grant, *errors.AppError)
	AuthorizeCategory(ctx context.Context, userID, categoryID uuid.UUID, action entity.Action) (*entity.Grant, *errors.AppError)
}

type AccessService struct {
	repo repository.AccessRepository
}

func NewAccessService(repo repository.AccessRepository) *AccessService {
	return &AccessService{repo: repo}
}

// Authorize loads the calendar first (missing calendar is NotFound), lets the owner
// through without a participant lookup, then checks the participant's role against action.
func (s *AccessService) Authorize(ctx context.Context, userID, calendarID uuid.UUID, action entity.Action) (*entity.Grant, *errors.AppError) {
	ref, err := s.repo.GetCalendarRef(ctx, calendarID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load calendar", err)
	}
	if ref == nil {
		return nil, errors.NotFound("calendar not found")
	}
	return s.authorizeOnCalendar(ctx, userID, ref, action)
}

func (s *AccessService) authorizeOnCalendar(ctx context.Context, userID uuid.UUID, ref *entity.CalendarRef, action entity.Action) (*entity.Grant, *errors.AppError) {
	grant := &entity.Grant{
		CalendarID: ref.ID,
		UserID:     userID,
		OwnerID:    ref.OwnerID,
		IsMain:     ref.IsMain,
		IsHoliday:  ref.IsHoliday,
	}

	if ref.OwnerID == userID {
		grant.IsOwner = true
		grant.Role = entity.RoleAdmin
		return grant, nil
	}

	role, err := s.repo.GetParticipantRole(ctx, ref.ID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load participant", err)
	}
	if role == nil {
		logger.Debug("AccessService:Authorize:NotParticipant", "calendar_id", ref.ID, "user_id", userID, "action", action)
		return nil, errors.Forbidden("you do not have access to this calendar")
	}
	if !entity.Allows(*role, action) {
		logger.Debug("AccessService:Authorize:RoleDenied", "calendar_id", ref.ID, "user_id", userID, "role", *role, "action", action)
		return nil, errors.Forbidden("your role does not allow this action")
	}

	grant.Role = *role
	return grant, nil
}

// AuthorizeEvent resolves the event's calendar. A user who is not on the calendar but
// participates in the event may still read that one event.
func (s *AccessService) AuthorizeEvent(ctx context.Context, userID, eventID uuid.UUID, action entity.Action) (*entity.Grant, *errors.AppError) {
	calendarID, err := s.repo.GetEventCalendarID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", err)
	}
	if calendarID == uuid.Nil {
		return nil, errors.NotFound("event not found")
	}

	grant, appErr := s.Authorize(ctx, userID, calendarID, action)
	if appErr == nil {
		return grant, nil
	}
	if appErr.Code != errors.ErrForbidden || action != entity.ActionReadEvents {
		return nil, appErr
	}

	isParticipant, err := s.repo.IsEventParticipant(ctx, eventID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event participant", err)
	}
	if !isParticipant {
		return nil, appErr
	}
	return &entity.Grant{
		CalendarID: calendarID,
		UserID:     userID,
		EventOnly:  true,
	}, nil
}

func (s *AccessService) AuthorizeCategory(ctx context.Context, userID, categoryID uuid.UUID, action entity.Action) (*entity.Grant, *errors.AppError) {
	calendarID, err := s.repo.GetCategoryCalendarID(ctx, categoryID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load category", err)
	}
	if calendarID == uuid.Nil {
		return nil, errors.NotFound("category not found")
	}
	return s.Authorize(ctx, userID, calendarID, action)
}
