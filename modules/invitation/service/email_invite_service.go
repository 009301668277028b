package service

import (
	"context"

	"calendar-api/core/constants"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/core/queue"
	"calendar-api/core/utils"
	accessEntity "calendar-api/modules/access/entity"
	calendarEntity "calendar-api/modules/calendar/entity"
	"calendar-api/modules/invitation/dto"
	"calendar-api/modules/invitation/entity"
	"calendar-api/modules/invitation/mapper"
	notifDto "calendar-api/modules/notification/dto"
	notifEntity "calendar-api/modules/notification/entity"
	notifService "calendar-api/modules/notification/service"

	"github.com/google/uuid"
)

// CreateCalendarEmailInvites stores one invite per distinct address and queues the emails.
func (s *InvitationService) CreateCalendarEmailInvites(ctx context.Context, userID, calendarID uuid.UUID, req *dto.CreateCalendarEmailInvitesRequest) ([]*dto.CalendarEmailInviteResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageInvites); appErr != nil {
		return nil, appErr
	}
	role, appErr := roleOrDefault(req.Role)
	if appErr != nil {
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

	calendar, err := s.calendars.GetByID(ctx, calendarID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get calendar failed", err)
	}
	if calendar == nil {
		return nil, errors.NotFound("calendar not found")
	}
	inviter, appErr := s.callerEmail(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	invites := make([]*entity.CalendarEmailInvite, 0, len(emails))
	for _, email := range emails {
		token, err := utils.GenerateInviteToken(constants.InviteTokenLength)
		if err != nil {
			return nil, errors.Internal("generate invite token failed", err)
		}
		invites = append(invites, &entity.CalendarEmailInvite{
			ID:         uuid.New(),
			CalendarID: calendarID,
			Email:      email,
			Role:       role,
			Token:      token,
			InvitedBy:  userID,
			ExpiresAt:  expiresAt,
		})
	}
	if err := s.repo.CreateCalendarEmailInvites(ctx, invites); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create email invites failed", err)
	}

	out := make([]*dto.CalendarEmailInviteResponse, 0, len(invites))
	for _, invite := range invites {
		s.enqueue(ctx, queue.TypeCalendarInviteEmail, queue.InviteEmailPayload{
			InviteID:   invite.ID,
			Email:      invite.Email,
			Token:      invite.Token,
			TargetName: calendar.Name,
			InvitedBy:  inviter.Username,
			Role:       string(invite.Role),
			ExpiresAt:  invite.ExpiresAt,
		})
		out = append(out, mapper.ToCalendarEmailInviteResponse(invite))
	}

	logger.Info("InvitationService:CreateCalendarEmailInvites:Success", "calendar_id", calendarID, "count", len(invites), "user_id", userID)
	return out, nil
}

func (s *InvitationService) ListCalendarEmailInvites(ctx context.Context, userID, calendarID uuid.UUID) ([]*dto.CalendarEmailInviteResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageInvites); appErr != nil {
		return nil, appErr
	}
	invites, err := s.repo.ListPendingCalendarEmailInvites(ctx, calendarID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get email invites failed", err)
	}
	return mapper.ToCalendarEmailInviteResponses(invites), nil
}

func (s *InvitationService) RevokeCalendarEmailInvite(ctx context.Context, userID, calendarID, inviteID uuid.UUID) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageInvites); appErr != nil {
		return appErr
	}
	deleted, err := s.repo.DeleteCalendarEmailInvite(ctx, calendarID, inviteID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "revoke email invite failed", err)
	}
	if !deleted {
		return errors.NotFound("email invite not found")
	}
	return nil
}

// GetCalendarEmailInviteInfo is public: it reveals only what the invite email already said.
func (s *InvitationService) GetCalendarEmailInviteInfo(ctx context.Context, token string) (*dto.CalendarEmailInviteInfoResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	info, appErr := s.loadCalendarEmailInvite(ctx, token)
	if appErr != nil {
		return nil, appErr
	}
	return &dto.CalendarEmailInviteInfoResponse{
		CalendarName:  info.CalendarName,
		CalendarColor: info.CalendarColor,
		InvitedBy:     info.InviterUsername,
		Email:         info.Email,
		Role:          string(effectiveRole(info.Role)),
		ExpiresAt:     info.ExpiresAt,
	}, nil
}

// AcceptCalendarEmailInvite redeems a single-use invite for the signed-in user whose email it was sent to.
func (s *InvitationService) AcceptCalendarEmailInvite(ctx context.Context, userID uuid.UUID, token string) (*dto.AcceptCalendarInviteResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	info, appErr := s.loadCalendarEmailInvite(ctx, token)
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
	if info.CalendarOwnerID == userID {
		return &dto.AcceptCalendarInviteResponse{CalendarID: info.CalendarID, Role: "owner", AlreadyMember: true}, nil
	}

	existing, err := s.participants.GetParticipant(ctx, info.CalendarID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get participant failed", err)
	}

	role := effectiveRole(info.Role)
	accepted, err := s.repo.AcceptCalendarEmailInvite(ctx, info.ID, &calendarEntity.Participant{
		CalendarID: info.CalendarID,
		UserID:     userID,
		Role:       role,
	}, s.clock.Now())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "accept email invite failed", err)
	}
	if !accepted {
		return nil, errors.NotFound("invite not found or already used")
	}

	logger.Info("InvitationService:AcceptCalendarEmailInvite:Success", "calendar_id", info.CalendarID, "user_id", userID)
	notifService.NotifySafe(ctx, s.notifier, &notifDto.CreateNotificationRequest{
		UserID:  info.InvitedBy,
		Title:   "Invite accepted",
		Message: info.Email + " accepted your invite to " + info.CalendarName,
		Type:    notifEntity.TypeEmailInviteAccepted,
		Data:    map[string]any{"calendar_id": info.CalendarID, "user_id": userID},
	})

	if existing != nil {
		return &dto.AcceptCalendarInviteResponse{CalendarID: info.CalendarID, Role: string(existing.Role), AlreadyMember: true}, nil
	}
	return &dto.AcceptCalendarInviteResponse{CalendarID: info.CalendarID, Role: string(role)}, nil
}

func (s *InvitationService) loadCalendarEmailInvite(ctx context.Context, token string) (*entity.CalendarEmailInviteInfo, *errors.AppError) {
	info, err := s.repo.GetCalendarEmailInviteInfo(ctx, token)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get email invite failed", err)
	}
	if info == nil || info.Status != entity.InviteStatusPending {
		return nil, errors.NotFound("invite not found or already used")
	}
	if info.IsExpired(s.clock.Now()) {
		return nil, errors.NewAppError(errors.ErrInviteExpired, "invite has expired", nil)
	}
	return info, nil
}

func validEmails(raw []string) ([]string, *errors.AppError) {
	emails := normalizeEmails(raw)
	if len(emails) == 0 {
		return nil, errors.InvalidInput("at least one email is required")
	}
	if len(emails) > constants.MaxEmailsPerInviteBatch {
		return nil, errors.InvalidInput("too many emails in one request")
	}
	for _, email := range emails {
		if !utils.IsValidEmail(email) {
			return nil, errors.InvalidInput("invalid email address: " + email)
		}
	}
	return emails, nil
}
