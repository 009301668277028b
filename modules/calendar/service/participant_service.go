package service

import (
	"context"

	"calendar-api/core/constants"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	accessEntity "calendar-api/modules/access/entity"
	"calendar-api/modules/calendar/dto"
	"calendar-api/modules/calendar/mapper"
	notifDto "calendar-api/modules/notification/dto"
	notifEntity "calendar-api/modules/notification/entity"
	notifService "calendar-api/modules/notification/service"

	"github.com/google/uuid"
)

// ListParticipants returns the owner and every participant with their role.
func (s *CalendarService) ListParticipants(ctx context.Context, userID, calendarID uuid.UUID) (*dto.ParticipantsResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionListParticipants)
	if appErr != nil {
		return nil, appErr
	}

	owner, err := s.calendars.GetUserSummary(ctx, grant.OwnerID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get calendar owner failed", err)
	}
	if owner == nil {
		return nil, errors.NotFound("calendar owner not found")
	}

	participants, err := s.participants.ListParticipants(ctx, calendarID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get participants failed", err)
	}

	return &dto.ParticipantsResponse{
		Owner:        mapper.ToUserResponse(owner),
		Participants: mapper.ToParticipantResponses(participants),
	}, nil
}

// ChangeRole sets a participant's role. The owner's implicit admin role cannot be changed.
func (s *CalendarService) ChangeRole(ctx context.Context, userID, calendarID, targetID uuid.UUID, role accessEntity.Role) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageParticipants)
	if appErr != nil {
		return appErr
	}
	if !role.Valid() {
		return errors.InvalidInput("unknown role")
	}
	if targetID == grant.OwnerID {
		return errors.Conflict("the calendar owner's role cannot be changed")
	}

	updated, err := s.participants.UpdateRole(ctx, calendarID, targetID, role)
	if err != nil {
		return errors.NewAppError(errors.ErrUpdateFailed, "update participant role failed", err)
	}
	if !updated {
		return errors.NotFound("participant not found")
	}

	logger.Info("CalendarService:ChangeRole:Success", "calendar_id", calendarID, "target_id", targetID, "role", role, "by", userID)
	notifService.NotifySafe(ctx, s.notifier, &notifDto.CreateNotificationRequest{
		UserID:  targetID,
		Title:   "Your role was changed",
		Message: "Your role on a shared calendar is now " + string(role),
		Type:    notifEntity.TypeRoleChanged,
		Data:    map[string]any{"calendar_id": calendarID, "role": role},
	})
	return nil
}

// RemoveParticipant takes a participant off the calendar. The owner cannot be removed.
func (s *CalendarService) RemoveParticipant(ctx context.Context, userID, calendarID, targetID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageParticipants)
	if appErr != nil {
		return appErr
	}
	if targetID == grant.OwnerID {
		return errors.Conflict("the calendar owner cannot be removed")
	}

	removed, err := s.participants.RemoveParticipant(ctx, calendarID, targetID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "remove participant failed", err)
	}
	if !removed {
		return errors.NotFound("participant not found")
	}

	logger.Info("CalendarService:RemoveParticipant:Success", "calendar_id", calendarID, "target_id", targetID, "by", userID)
	notifService.NotifySafe(ctx, s.notifier, &notifDto.CreateNotificationRequest{
		UserID:  targetID,
		Title:   "Removed from calendar",
		Message: "You no longer have access to a shared calendar",
		Type:    notifEntity.TypeRemovedFromCalendar,
		Data:    map[string]any{"calendar_id": calendarID},
	})
	return nil
}

// Leave removes the caller from a calendar shared with them.
func (s *CalendarService) Leave(ctx context.Context, userID, calendarID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	grant, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionReadCalendar)
	if appErr != nil {
		return appErr
	}
	if grant.IsOwner {
		return errors.Conflict("the calendar owner cannot leave their own calendar")
	}

	removed, err := s.participants.RemoveParticipant(ctx, calendarID, userID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "leave calendar failed", err)
	}
	if !removed {
		return errors.NotFound("participant not found")
	}

	notifService.NotifySafe(ctx, s.notifier, &notifDto.CreateNotificationRequest{
		UserID:  grant.OwnerID,
		Title:   "A participant left your calendar",
		Message: "A participant left one of your calendars",
		Type:    notifEntity.TypeParticipantLeft,
		Data:    map[string]any{"calendar_id": calendarID, "user_id": userID},
	})
	return nil
}
