package service

import (
	"context"
	"strings"
	"time"

	"calendar-api/core/constants"
	"calendar-api/core/errors"
	"calendar-api/core/logger"
	"calendar-api/core/queue"
	"calendar-api/core/utils"
	accessEntity "calendar-api/modules/access/entity"
	accessService "calendar-api/modules/access/service"
	calendarEntity "calendar-api/modules/calendar/entity"
	eventEntity "calendar-api/modules/event/entity"
	"calendar-api/modules/invitation/dto"
	"calendar-api/modules/invitation/entity"
	"calendar-api/modules/invitation/mapper"
	"calendar-api/modules/invitation/repository"
	notifDto "calendar-api/modules/notification/dto"
	notifEntity "calendar-api/modules/notification/entity"
	notifService "calendar-api/modules/notification/service"

	"github.com/google/uuid"
)

type CalendarReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*calendarEntity.Calendar, error)
	GetUserSummary(ctx context.Context, userID uuid.UUID) (*calendarEntity.UserSummary, error)
}

type ParticipantStore interface {
	GetParticipant(ctx context.Context, calendarID, userID uuid.UUID) (*calendarEntity.Participant, error)
	AddParticipant(ctx context.Context, participant *calendarEntity.Participant) (bool, error)
}

type EventReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*eventEntity.Event, error)
}

type Settings struct {
	// EmailExpireDays applies to email invites created without an explicit expiry.
	EmailExpireDays int
	// LinkBaseURL is the frontend root that invite URLs point at.
	LinkBaseURL string
}

type Dependencies struct {
	Repo         repository.InvitationRepository
	Access       accessService.AccessServiceInterface
	Calendars    CalendarReader
	Participants ParticipantStore
	Events       EventReader
	Enqueuer     queue.Enqueuer
	Notifier     notifService.Notifier
	Clock        utils.Clock
	Settings     Settings
}

type InvitationService struct {
	repo         repository.InvitationRepository
	access       accessService.AccessServiceInterface
	calendars    CalendarReader
	participants ParticipantStore
	events       EventReader
	enqueuer     queue.Enqueuer
	notifier     notifService.Notifier
	clock        utils.Clock
	settings     Settings
}

func NewInvitationService(deps Dependencies) *InvitationService {
	clock := deps.Clock
	if clock == nil {
		clock = utils.SystemClock()
	}
	settings := deps.Settings
	if settings.EmailExpireDays < 1 {
		settings.EmailExpireDays = constants.DefaultEmailExpireDays
	}
	settings.LinkBaseURL = strings.TrimRight(settings.LinkBaseURL, "/")

	return &InvitationService{
		repo:         deps.Repo,
		access:       deps.Access,
		calendars:    deps.Calendars,
		participants: deps.Participants,
		events:       deps.Events,
		enqueuer:     deps.Enqueuer,
		notifier:     deps.Notifier,
		clock:        clock,
		settings:     settings,
	}
}

// ===================== Invite links =====================

// CreateInviteLink issues a shareable link. Without expireInDays the link never expires.
func (s *InvitationService) CreateInviteLink(ctx context.Context, userID, calendarID uuid.UUID, req *dto.CreateInviteLinkRequest) (*dto.InviteLinkResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageInvites); appErr != nil {
		return nil, appErr
	}
	role, appErr := roleOrDefault(req.Role)
	if appErr != nil {
		return nil, appErr
	}
	now := s.clock.Now()
	expiresAt, appErr := expiryFrom(now, req.ExpireInDays, 0)
	if appErr != nil {
		return nil, appErr
	}

	id, err := utils.GenerateInviteLinkID()
	if err != nil {
		return nil, errors.Internal("generate invite link failed", err)
	}
	link := &entity.InviteLink{
		ID:         id,
		CalendarID: calendarID,
		Role:       role,
		CreatedBy:  userID,
		ExpiresAt:  expiresAt,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create invite link failed", err)
	}

	logger.Info("InvitationService:CreateInviteLink:Success", "calendar_id", calendarID, "role", role, "user_id", userID)
	return mapper.ToInviteLinkResponse(link, s.linkURL(link.ID), now), nil
}

func (s *InvitationService) ListInviteLinks(ctx context.Context, userID, calendarID uuid.UUID) ([]*dto.InviteLinkResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageInvites); appErr != nil {
		return nil, appErr
	}
	links, err := s.repo.ListLinks(ctx, calendarID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get invite links failed", err)
	}

	now := s.clock.Now()
	out := make([]*dto.InviteLinkResponse, 0, len(links))
	for i := range links {
		out = append(out, mapper.ToInviteLinkResponse(&links[i], s.linkURL(links[i].ID), now))
	}
	return out, nil
}

func (s *InvitationService) RevokeInviteLink(ctx context.Context, userID, calendarID uuid.UUID, linkID string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if _, appErr := s.access.Authorize(ctx, userID, calendarID, accessEntity.ActionManageInvites); appErr != nil {
		return appErr
	}
	deleted, err := s.repo.DeleteLink(ctx, calendarID, linkID)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "revoke invite link failed", err)
	}
	if !deleted {
		return errors.NotFound("invite link not found")
	}
	return nil
}

// GetInviteLinkInfo describes the calendar behind a link to a signed-in user before they accept.
func (s *InvitationService) GetInviteLinkInfo(ctx context.Context, userID uuid.UUID, linkID string) (*dto.InviteLinkInfoResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	info, appErr := s.loadLink(ctx, linkID)
	if appErr != nil {
		return nil, appErr
	}

	isMember := info.CalendarOwnerID == userID
	if !isMember {
		participant, err := s.participants.GetParticipant(ctx, info.CalendarID, userID)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "get participant failed", err)
		}
		isMember = participant != nil
	}

	return &dto.InviteLinkInfoResponse{
		ID:            info.ID,
		CalendarID:    info.CalendarID,
		CalendarName:  info.CalendarName,
		CalendarColor: info.CalendarColor,
		InvitedBy:     info.InviterUsername,
		Role:          string(effectiveRole(info.Role)),
		ExpiresAt:     info.ExpiresAt,
		IsMember:      isMember,
	}, nil
}

// AcceptInviteLink joins the caller to the link's calendar. Accepting again, or accepting as
// the owner, changes nothing. A requested role may not exceed the link's role.
func (s *InvitationService) AcceptInviteLink(ctx context.Context, userID uuid.UUID, linkID string, req *dto.AcceptInviteLinkRequest) (*dto.AcceptCalendarInviteResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	info, appErr := s.loadLink(ctx, linkID)
	if appErr != nil {
		return nil, appErr
	}

	role := effectiveRole(info.Role)
	if req != nil && req.Role != nil {
		requested, ok := accessEntity.ParseRole(*req.Role)
		if !ok {
			return nil, errors.InvalidInput("unknown role")
		}
		if !requested.AtMost(role) {
			return nil, errors.Forbidden("requested role is higher than the invite allows")
		}
		role = requested
	}

	resp, appErr := s.joinCalendar(ctx, info.CalendarID, info.CalendarOwnerID, userID, role)
	if appErr != nil {
		return nil, appErr
	}
	if !resp.AlreadyMember {
		notifService.NotifySafe(ctx, s.notifier, &notifDto.CreateNotificationRequest{
			UserID:  info.CalendarOwnerID,
			Title:   "New calendar participant",
			Message: "Someone joined " + info.CalendarName + " through an invite link",
			Type:    notifEntity.TypeParticipantJoined,
			Data:    map[string]any{"calendar_id": info.CalendarID, "user_id": userID, "role": role},
		})
	}
	return resp, nil
}

// joinCalendar adds the participant unless they already have access.
func (s *InvitationService) joinCalendar(ctx context.Context, calendarID, ownerID, userID uuid.UUID, role accessEntity.Role) (*dto.AcceptCalendarInviteResponse, *errors.AppError) {
	if ownerID == userID {
		return &dto.AcceptCalendarInviteResponse{CalendarID: calendarID, Role: "owner", AlreadyMember: true}, nil
	}

	existing, err := s.participants.GetParticipant(ctx, calendarID, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get participant failed", err)
	}
	if existing != nil {
		return &dto.AcceptCalendarInviteResponse{CalendarID: calendarID, Role: string(existing.Role), AlreadyMember: true}, nil
	}

	created, err := s.participants.AddParticipant(ctx, &calendarEntity.Participant{
		CalendarID: calendarID,
		UserID:     userID,
		Role:       role,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "add participant failed", err)
	}
	if !created {
		// A concurrent redemption won; report the row that exists.
		existing, err = s.participants.GetParticipant(ctx, calendarID, userID)
		if err != nil || existing == nil {
			return nil, errors.NewAppError(errors.ErrGetFailed, "get participant failed", err)
		}
		return &dto.AcceptCalendarInviteResponse{CalendarID: calendarID, Role: string(existing.Role), AlreadyMember: true}, nil
	}

	logger.Info("InvitationService:JoinCalendar:Success", "calendar_id", calendarID, "user_id", userID, "role", role)
	return &dto.AcceptCalendarInviteResponse{CalendarID: calendarID, Role: string(role)}, nil
}

func (s *InvitationService) loadLink(ctx context.Context, linkID string) (*entity.InviteLinkInfo, *errors.AppError) {
	info, err := s.repo.GetLinkInfo(ctx, linkID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get invite link failed", err)
	}
	if info == nil {
		return nil, errors.NotFound("invite link not found")
	}
	if info.IsExpired(s.clock.Now()) {
		return nil, errors.NewAppError(errors.ErrInviteExpired, "invite link has expired", nil)
	}
	return info, nil
}

func (s *InvitationService) linkURL(id string) string {
	return s.settings.LinkBaseURL + "/calendar-invites/" + id
}

// ===================== Maintenance =====================

// CleanupExpired purges invites that expired more than the retention window ago.
func (s *InvitationService) CleanupExpired(ctx context.Context) (*entity.CleanupResult, error) {
	cutoff := s.clock.Now().Add(-constants.ExpiredInviteRetention)
	result, err := s.repo.DeleteExpired(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	logger.Info("InvitationService:CleanupExpired:Done",
		"links", result.Links, "calendar_emails", result.CalendarEmails, "event_emails", result.EventEmails, "cutoff", cutoff)
	return result, nil
}

// ===================== Helpers =====================

func roleOrDefault(raw *string) (accessEntity.Role, *errors.AppError) {
	if raw == nil {
		return accessEntity.DefaultRole, nil
	}
	role, ok := accessEntity.ParseRole(*raw)
	if !ok {
		return "", errors.InvalidInput("unknown role")
	}
	return role, nil
}

func effectiveRole(role accessEntity.Role) accessEntity.Role {
	if role.Valid() {
		return role
	}
	return accessEntity.DefaultRole
}

// expiryFrom turns expireInDays into an absolute time. fallbackDays of 0 means no expiry.
func expiryFrom(now time.Time, days *int, fallbackDays int) (*time.Time, *errors.AppError) {
	n := fallbackDays
	if days != nil {
		if *days < 1 {
			return nil, errors.InvalidInput("expire_in_days must be an integer >= 1")
		}
		n = *days
	}
	if n == 0 {
		return nil, nil
	}
	t := now.Add(time.Duration(n) * 24 * time.Hour)
	return &t, nil
}

// normalizeEmails lower-cases, trims and de-duplicates, keeping first-seen order.
func normalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, raw := range emails {
		email := utils.NormalizeEmail(raw)
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

func (s *InvitationService) callerEmail(ctx context.Context, userID uuid.UUID) (*calendarEntity.UserSummary, *errors.AppError) {
	user, err := s.calendars.GetUserSummary(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get user failed", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "user not found", nil)
	}
	return user, nil
}

func (s *InvitationService) enqueue(ctx context.Context, taskType string, payload queue.InviteEmailPayload) {
	if s.enqueuer == nil {
		return
	}
	if err := s.enqueuer.EnqueueInviteEmail(ctx, taskType, payload); err != nil {
		logger.Error("InvitationService:Enqueue:Error", "type", taskType, "invite_id", payload.InviteID, "error", err)
	}
}
