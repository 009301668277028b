package service

import (
	"context"

	"calendar-api/core/constants"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/core/queue"
	"calendar-api/core/utils"
	accessEntity "calendar-api/modules/access/entity"
	"calendar-api/modules/invitation/dto"
	"calendar-api/modules/invitation/entity"
	"calendar-api/modules/invitation/mapper"
	notifDto "calendar-api/modules/notification/dto"
	notifEntity "calendar-api/modules/notification/entity"
	notifService "calendar-api/modules/notification/service"

	"github.com/google/uuid"
)

// CreateEventEmailInvites invites addresses to a single event. Addresses that already belong
// to an account are linked to that user up front.
func (s *InvitationService) CreateEventEmailInvites(ctx context.Context, userID, eventID uuid.UUID, req *dto.CreateEventEmailInvitesRequest) ([]*dto.EventEmailInviteResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.AuthorizeEvent(ctx, userID, eventID, accessEntity.ActionInviteToEvent); appErr != nil {
		return nil, appErr
	}
	emails, appErr := validEmails(req.Emails)
	if appErr != nil {
		return nil, appErr
	}
	expiresAt, appErr := expiryFrom(s.clock.Now(), req.ExpireInDays, s.settings.EmailExpireDays)
	if appErr != nil {
		return nil, appErr
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", err)
	}
	if event == nil {
		return nil, errors.NotFound("event not found")
	}
	inviter, appErr := s.callerEmail(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	registered, err := s.repo.FindUserIDsByEmails(ctx, emails)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "look up invitees failed", err)
	}

	invites := make([]*entity.EventEmailInvite, 0, len(emails))
	for _, email := range emails {
		token, err := utils.GenerateInviteToken(constants.InviteTokenLength)
		if err != nil {
			return nil, errors.Internal("generate invite token failed", err)
		}
		invite := &entity.EventEmailInvite{
			ID:        uuid.New(),
			EventID:   eventID,
			Email:     email,
			Token:     token,
			InvitedBy: userID,
			ExpiresAt: expiresAt,
		}
		if id, ok := registered[email]; ok {
			invite.UserID = &id
		}
		invites = append(invites, invite)
	}
	if err := s.repo.CreateEventEmailInvites(ctx, invites); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create event invites failed", err)
	}

	startsAt := event.StartAt
	out := make([]*dto.EventEmailInviteResponse, 0, len(invites))
	for _, invite := range invites {
		s.enqueue(ctx, queue.TypeEventInviteEmail, queue.InviteEmailPayload{
			InviteID:   invite.ID,
			Email:      invite.Email,
			Token:      invite.Token,
			TargetName: event.Title,
			InvitedBy:  inviter.Username,
			StartsAt:   &startsAt,
			ExpiresAt:  invite.ExpiresAt,
		})
		out = append(out, mapper.ToEventEmailInviteResponse(invite))
	}

	logger.Info("InvitationService:CreateEventEmailInvites:Success", "event_id", eventID, "count", len(invites), "user_id", userID)
	return out, nil
}

func (s *InvitationService) GetEventEmailInviteInfo(ctx context.Context, token string) (*dto.EventEmailInviteInfoResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	info, appErr := s.loadEventEmailInvite(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.EventEmailInviteInfoResponse{
		EventTitle: info.EventTitle,
		StartAt:    info.EventStartAt,
		EndAt:      info.EventEndAt,
		InvitedBy:  info.InviterUsername,
		Email:      info.Email,
		ExpiresAt:  info.ExpiresAt,
	}, nil
}

// AcceptEventEmailInvite makes the caller a confirmed participant of the event.
func (s *InvitationService) AcceptEventEmailInvite(ctx context.Context, userID uuid.UUID, token string) (*dto.AcceptEventInviteResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	info, appErr := s.loadEventEmailInvite(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	caller, appErr := s.callerEmail(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	if !utils.EmailsMatch(caller.Email, info.Email) {
		return nil, errors.Forbidden("this invite was sent to a different email address")
	}

	accepted, err := s.repo.AcceptEventEmailInvite(ctx, info.ID, info.EventID, userID, s.clock.Now())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "accept event invite failed", err)
	}
	if !accepted {
		return nil, errors.NotFound("invite not found or already used")
	}

	logger.Info("InvitationService:AcceptEventEmailInvite:Success", "event_id", info.EventID, "user_id", userID)
	notifService.NotifySafe(ctx, s.notifier, &notifDto.CreateNotificationRequest{
		UserID:  info.InvitedBy,
		Title:   "Event invite accepted",
		Message: info.Email + " will attend " + info.EventTitle,
		Type:    notifEntity.TypeEventInviteAccepted,
		Data:    map[string]any{"event_id": info.EventID, "user_id": userID},
	})
	return &dto.AcceptEventInviteResponse{EventID: info.EventID, CalendarID: info.CalendarID}, nil
}

func (s *InvitationService) loadEventEmailInvite(ctx context.Context, token string) (*entity.EventEmailInviteInfo, *errors.AppError) {
	info, err := s.repo.GetEventEmailInviteInfo(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event invite failed", err)
	}
	if info == nil || info.Status != entity.InviteStatusPending {
		return nil, errors.NotFound("invite not found or already used")
	}
	if info.IsExpired(s.clock.Now()) {
		return nil, errors.NewAppError(errors.ErrInviteExpired, "invite has expired", nil)
	}
	return info, nil
}
